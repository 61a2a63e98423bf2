package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	grpcsvc "github.com/vladislavdragonenkov/orderstatus/internal/service/grpc"
)

const usage = `usage: orderctl <create|get|update|demo> [flags]

  create  [-id ID] -description TEXT -status STATUS
  get     -id ID
  update  -id ID -description TEXT -status STATUS
  demo    [-id ID] create, read, update and read one order

create and demo generate a random order id when -id is omitted.

common flags: -addr, -caller, -deposit, -timeout`

type config struct {
	command     string
	addr        string
	caller      string
	deposit     uint64
	timeout     time.Duration
	orderID     string
	description string
	status      string
}

type connector func(addr string) (grpc.ClientConnInterface, func() error, error)

func dialInsecure(addr string) (grpc.ClientConnInterface, func() error, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

func parseConfig(args []string, lookup func(string) string) (config, error) {
	if len(args) == 0 {
		return config{}, errors.New(usage)
	}

	cfg := config{command: strings.ToLower(args[0])}
	switch cfg.command {
	case "create", "get", "update", "demo":
	default:
		return config{}, fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	defaultAddr := lookup("OMS_GRPC_TARGET")
	if defaultAddr == "" {
		defaultAddr = "localhost:50051"
	}

	fs := flag.NewFlagSet("orderctl "+cfg.command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.addr, "addr", defaultAddr, "gRPC target address")
	fs.StringVar(&cfg.caller, "caller", lookup("OMS_SELF_ID"), "caller identity sent as x-caller-id")
	fs.Uint64Var(&cfg.deposit, "deposit", 1, "attached deposit in minimal units")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-command timeout")
	fs.StringVar(&cfg.orderID, "id", "", "order id (random for create and demo when omitted)")
	fs.StringVar(&cfg.description, "description", "desc", "order description")
	fs.StringVar(&cfg.status, "status", string(domain.OrderStatusPending), "order status: Pending|Scheduled|InProgress|Completed|Cancelled")
	if err := fs.Parse(args[1:]); err != nil {
		return config{}, err
	}

	if cfg.command != "get" && cfg.caller == "" {
		return config{}, errors.New("-caller (or OMS_SELF_ID) is required for mutating commands")
	}
	if _, err := domain.ParseOrderStatus(cfg.status); err != nil && cfg.command != "get" && cfg.command != "demo" {
		return config{}, err
	}

	if cfg.orderID == "" {
		switch cfg.command {
		case "create", "demo":
			cfg.orderID = uuid.NewString()
		default:
			return config{}, fmt.Errorf("-id is required for %s", cfg.command)
		}
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config, connect connector, out io.Writer) error {
	conn, closeFn, err := connect(cfg.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.addr, err)
	}
	defer func() { _ = closeFn() }()

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	client := grpcsvc.NewClient(conn)
	call := domain.StaticCallContext{Caller: cfg.caller, Deposit: cfg.deposit}
	order := domain.Order{OrderID: cfg.orderID, Description: cfg.description, Status: domain.OrderStatus(cfg.status)}

	switch cfg.command {
	case "create":
		result, err := client.CreateOrder(ctx, call, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return printJSON(out, map[string]string{"result": result})
	case "get":
		found, err := client.GetOrder(ctx, cfg.orderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		return printJSON(out, found)
	case "update":
		result, err := client.UpdateOrder(ctx, call, order)
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return printJSON(out, map[string]string{"result": result})
	default:
		return runDemo(ctx, client, call, cfg.orderID, out)
	}
}

// runDemo создаёт заказ, читает его, переводит в Pending с новым описанием и читает снова.
func runDemo(ctx context.Context, client *grpcsvc.Client, call domain.CallContext, orderID string, out io.Writer) error {
	steps := []struct {
		name string
		fn   func() (any, error)
	}{
		{"create", func() (any, error) {
			return client.CreateOrder(ctx, call, domain.Order{OrderID: orderID, Description: "description", Status: domain.OrderStatusScheduled})
		}},
		{"get", func() (any, error) { return client.GetOrder(ctx, orderID) }},
		{"update", func() (any, error) {
			return client.UpdateOrder(ctx, call, domain.Order{OrderID: orderID, Description: "desc", Status: domain.OrderStatusPending})
		}},
		{"get", func() (any, error) { return client.GetOrder(ctx, orderID) }},
	}

	for _, step := range steps {
		result, err := step.fn()
		if err != nil {
			return fmt.Errorf("demo %s: %w", step.name, err)
		}
		if err := printJSON(out, map[string]any{"step": step.name, "result": result}); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(context.Background(), cfg, dialInsecure, os.Stdout); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
