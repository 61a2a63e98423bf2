package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	grpcsvc "github.com/vladislavdragonenkov/orderstatus/internal/service/grpc"
)

type loadMode string

const (
	modeCreate          loadMode = "create"
	modeCreateUpdate    loadMode = "create-update"
	modeCreateUpdateGet loadMode = "create-update-get"
)

type config struct {
	addr        string
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	connections int
	timeout     time.Duration
	mode        loadMode
	caller      string
	deposit     uint64
	idPrefix    string
	outputPath  string
}

func parseConfig(args []string, lookup func(string) string) (config, error) {
	var cfg config
	var modeValue string

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC target address")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios to execute in count mode; in duration mode only used when explicitly set")
	fs.DurationVar(&cfg.duration, "duration", 0, "optional time-based run duration (e.g. 10m, 15m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	fs.IntVar(&cfg.connections, "connections", 20, "number of gRPC client connections")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-RPC timeout")
	fs.StringVar(&modeValue, "mode", string(modeCreate), "load mode: create | create-update | create-update-get")
	fs.StringVar(&cfg.caller, "caller", lookup("OMS_SELF_ID"), "caller identity sent as x-caller-id")
	fs.Uint64Var(&cfg.deposit, "deposit", 1, "attached deposit in minimal units")
	fs.StringVar(&cfg.idPrefix, "id-prefix", "lt", "order id prefix")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode

	switch {
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.connections <= 0:
		return cfg, errors.New("connections must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case strings.TrimSpace(cfg.caller) == "":
		return cfg, errors.New("caller (or OMS_SELF_ID) is required")
	case strings.TrimSpace(cfg.idPrefix) == "":
		return cfg, errors.New("id-prefix is required")
	}

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeCreate, modeCreateUpdate, modeCreateUpdateGet:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

// execute прогоняет сценарии на пуле воркеров; соединения раздаются воркерам по кругу.
func execute(cfg config, conns []grpc.ClientConnInterface, runID string) report {
	startedAt := time.Now()
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func(conn grpc.ClientConnInterface) {
			defer wg.Done()
			for id := range jobs {
				_ = runScenario(conn, cfg, id, runID, col)
			}
		}(conns[workerID%len(conns)])
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	return col.buildReport(startedAt, time.Since(startedAt))
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func runScenario(conn grpc.ClientConnInterface, cfg config, index int, runID string, col *collector) (err error) {
	scenarioStart := time.Now()
	defer func() {
		col.record(scenarioMethod, time.Since(scenarioStart), grpcCode(err))
	}()

	call := domain.StaticCallContext{Caller: cfg.caller, Deposit: cfg.deposit}
	order := &grpcsvc.Order{
		OrderID:     fmt.Sprintf("%s-%s-%d", cfg.idPrefix, runID, index),
		Description: "load",
		Status:      string(domain.OrderStatusPending),
	}

	if err := invoke(conn, cfg.timeout, call, "CreateOrder", grpcsvc.FullMethodCreateOrder,
		&grpcsvc.CreateOrderRequest{Order: order}, &grpcsvc.CreateOrderResponse{}, col); err != nil {
		return err
	}
	if cfg.mode == modeCreate {
		return nil
	}

	updated := *order
	updated.Status = string(domain.OrderStatusCompleted)
	if err := invoke(conn, cfg.timeout, call, "UpdateOrder", grpcsvc.FullMethodUpdateOrder,
		&grpcsvc.UpdateOrderRequest{Order: &updated}, &grpcsvc.UpdateOrderResponse{}, col); err != nil {
		return err
	}
	if cfg.mode == modeCreateUpdate {
		return nil
	}

	resp := &grpcsvc.GetOrderResponse{}
	if err := invoke(conn, cfg.timeout, nil, "GetOrder", grpcsvc.FullMethodGetOrder,
		&grpcsvc.GetOrderRequest{OrderID: order.OrderID}, resp, col); err != nil {
		return err
	}
	if resp.Order == nil || resp.Order.Status != updated.Status {
		return status.Errorf(codes.DataLoss, "order %s read back with unexpected state", order.OrderID)
	}
	return nil
}

func invoke(
	conn grpc.ClientConnInterface,
	timeout time.Duration,
	call domain.CallContext,
	name, method string,
	req, resp any,
	col *collector,
) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := conn.Invoke(grpcsvc.WithCallContext(ctx, call), method, req, resp, grpc.CallContentSubtype(grpcsvc.CodecName))
	col.record(name, time.Since(start), grpcCode(err))
	return err
}

func grpcCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	return status.Code(err)
}

type dialer func(addr string) (grpc.ClientConnInterface, func() error, error)

func dialInsecure(addr string) (grpc.ClientConnInterface, func() error, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

// run возвращает код выхода; соединения закрываются на любом пути, включая ошибки.
func run(args []string, lookup func(string) string, dial dialer, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, lookup)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	conns := make([]grpc.ClientConnInterface, 0, cfg.connections)
	closers := make([]func() error, 0, cfg.connections)
	defer func() {
		for _, closeFn := range closers {
			_ = closeFn()
		}
	}()
	for i := 0; i < cfg.connections; i++ {
		conn, closeFn, dialErr := dial(cfg.addr)
		if dialErr != nil {
			_, _ = fmt.Fprintf(stderr, "failed to create grpc client connection: %v\n", dialErr)
			return 1
		}
		conns = append(conns, conn)
		closers = append(closers, closeFn)
	}

	runID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid())
	result := execute(cfg, conns, runID)

	printReport(stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(stderr, "failed to write report: %v\n", err)
			return 1
		}
	}

	if result.FailedScenarios > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, dialInsecure, os.Stdout, os.Stderr))
}
