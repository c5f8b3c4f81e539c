package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/usuarios/internal/client/client"
)

// Stats prints how many API calls were made this session, by operation and
// status code.
func (a *App) Stats(ctx context.Context) error {
	counts, err := client.CallCounts(a.metrics)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		a.say("No API calls yet.")
		return nil
	}

	ops := make([]string, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		codes := make([]string, 0, len(counts[op]))
		for code := range counts[op] {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(a.out, "  %-12s %-6s %d\n", op, code, int(counts[op][code]))
		}
	}
	return nil
}
