package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	"github.com/vladislavdragonenkov/orderstatus/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/orderstatus/internal/service/grpc"
	"github.com/vladislavdragonenkov/orderstatus/internal/service/orders"
	"github.com/vladislavdragonenkov/orderstatus/internal/storage/memory"
)

const selfID = "v0-kos-kirananetwork.near"

func bufconnConnector(t *testing.T) connector {
	t.Helper()

	listener := bufconn.Listen(1024 * 1024)
	logger := logrus.New().WithField("component", "orderctl-test")
	service := orders.NewService(memory.NewOrderStore(), selfID, logger, metrics.NewOrderMetricsWithRegisterer(prometheus.NewRegistry()))

	server := grpc.NewServer()
	grpcsvc.RegisterOrderServiceServer(server, grpcsvc.NewOrderService(service, logger))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	return func(string) (grpc.ClientConnInterface, func() error, error) {
		conn, err := grpc.NewClient("passthrough:///bufnet",
			grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return listener.Dial() }),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, nil, err
		}
		return conn, conn.Close, nil
	}
}

func lookupFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]string{"create", "-id=A", "-description=d1", "-status=Scheduled"}, lookupFrom(map[string]string{
		"OMS_SELF_ID":     selfID,
		"OMS_GRPC_TARGET": "orders:50051",
	}))
	require.NoError(t, err)
	require.Equal(t, config{
		command:     "create",
		addr:        "orders:50051",
		caller:      selfID,
		deposit:     1,
		timeout:     5 * time.Second,
		orderID:     "A",
		description: "d1",
		status:      "Scheduled",
	}, cfg)

	_, err = parseConfig(nil, lookupFrom(nil))
	require.ErrorContains(t, err, "usage")

	_, err = parseConfig([]string{"delete"}, lookupFrom(nil))
	require.ErrorContains(t, err, "unknown command")

	_, err = parseConfig([]string{"update", "-id=A"}, lookupFrom(nil))
	require.ErrorContains(t, err, "-caller")

	_, err = parseConfig([]string{"update", "-caller=x", "-status=Done"}, lookupFrom(nil))
	require.ErrorIs(t, err, domain.ErrInvalidOrderStatus)

	cfg, err = parseConfig([]string{"get", "-id=A"}, lookupFrom(nil))
	require.NoError(t, err)
	require.Equal(t, "localhost:50051", cfg.addr)

	_, err = parseConfig([]string{"get"}, lookupFrom(nil))
	require.ErrorContains(t, err, "-id is required")

	_, err = parseConfig([]string{"update", "-caller=x"}, lookupFrom(nil))
	require.ErrorContains(t, err, "-id is required")
}

func TestParseConfig_GeneratesOrderID(t *testing.T) {
	env := lookupFrom(map[string]string{"OMS_SELF_ID": selfID})

	first, err := parseConfig([]string{"demo"}, env)
	require.NoError(t, err)
	second, err := parseConfig([]string{"demo"}, env)
	require.NoError(t, err)
	require.NotEmpty(t, first.orderID)
	require.NotEqual(t, first.orderID, second.orderID)
	_, err = uuid.Parse(first.orderID)
	require.NoError(t, err)

	created, err := parseConfig([]string{"create"}, env)
	require.NoError(t, err)
	require.NotEmpty(t, created.orderID)
}

func TestRun_DemoTwiceAgainstSameStore(t *testing.T) {
	connect := bufconnConnector(t)
	env := lookupFrom(map[string]string{"OMS_SELF_ID": selfID})

	for i := 0; i < 2; i++ {
		cfg, err := parseConfig([]string{"demo"}, env)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, run(context.Background(), cfg, connect, &out))
		require.Contains(t, out.String(), cfg.orderID)
	}
}

func TestRun_Demo(t *testing.T) {
	var out bytes.Buffer
	cfg := config{command: "demo", caller: selfID, deposit: 1, timeout: 5 * time.Second, orderID: "order_id"}

	require.NoError(t, run(context.Background(), cfg, bufconnConnector(t), &out))

	dec := json.NewDecoder(&out)
	var steps []map[string]any
	for dec.More() {
		var step map[string]any
		require.NoError(t, dec.Decode(&step))
		steps = append(steps, step)
	}
	require.Len(t, steps, 4)
	require.Equal(t, "OK", steps[0]["result"])
	require.Equal(t, "Scheduled", steps[1]["result"].(map[string]any)["status"])
	require.Equal(t, "OK", steps[2]["result"])

	last := steps[3]["result"].(map[string]any)
	require.Equal(t, "order_id", last["order_id"])
	require.Equal(t, "desc", last["description"])
	require.Equal(t, "Pending", last["status"])
}

func TestRun_SingleCommands(t *testing.T) {
	connect := bufconnConnector(t)
	base := config{caller: selfID, deposit: 1, timeout: 5 * time.Second, orderID: "A", description: "d1", status: "Pending"}

	var out bytes.Buffer
	create := base
	create.command = "create"
	require.NoError(t, run(context.Background(), create, connect, &out))
	require.Contains(t, out.String(), `"OK"`)

	err := run(context.Background(), create, connect, &out)
	require.ErrorIs(t, err, domain.ErrDuplicateOrder)

	update := base
	update.command = "update"
	update.deposit = 0
	err = run(context.Background(), update, connect, &out)
	require.ErrorIs(t, err, domain.ErrPaymentRequired)

	out.Reset()
	get := base
	get.command = "get"
	require.NoError(t, run(context.Background(), get, connect, &out))
	require.True(t, strings.Contains(out.String(), `"description": "d1"`), out.String())

	get.orderID = "missing"
	err = run(context.Background(), get, connect, &out)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
