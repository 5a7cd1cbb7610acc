package suppression_controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// headRouter keeps one gRPC connection per zone's head service.
type headRouter struct {
	mu    sync.RWMutex
	conns map[string]*grpc.ClientConn
	clis  map[string]pb.HeadServiceClient
}

// Compile-time check that *headRouter implements HeadRouter.
var _ HeadRouter = (*headRouter)(nil)

// NewHeadRouter accepts a string like "zone1=host1:50051,zone2=host2:50051".
func NewHeadRouter(ctx context.Context, mapStr string) (HeadRouter, error) {
	hr := &headRouter{
		conns: make(map[string]*grpc.ClientConn),
		clis:  make(map[string]pb.HeadServiceClient),
	}

	pairs := strings.Split(mapStr, ",")
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid HEAD_GRPC_ADDR_MAP entry: %q", p)
		}
		zone, addr := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])

		dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		conn, err := grpc.DialContext(
			dctx,
			addr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithReturnConnectionError(),
		)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("dial %s (%s): %w", zone, addr, err)
		}

		hr.mu.Lock()
		hr.conns[zone] = conn
		hr.clis[zone] = pb.NewHeadServiceClient(conn)
		hr.mu.Unlock()
	}
	return hr, nil
}

func (h *headRouter) Get(zone string) (pb.HeadServiceClient, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cli, ok := h.clis[zone]
	return cli, ok
}

func (h *headRouter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.conns {
		if c != nil {
			_ = c.Close()
		}
	}
	h.clis = map[string]pb.HeadServiceClient{}
	h.conns = map[string]*grpc.ClientConn{}
}
