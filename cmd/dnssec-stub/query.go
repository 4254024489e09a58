package main

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/stub"
	"github.com/nsmithuk/dnssec-stub/upstream"
	"github.com/nsmithuk/dnssec-stub/validator"
	"github.com/spf13/cobra"
)

func newQueryCommand() *cobra.Command {
	var upstreamAddr string
	var qtype string
	var timeout time.Duration
	var jsonLog bool
	var logLevel string

	c := &cobra.Command{
		Use:   "query <domain>",
		Args:  cobra.ExactArgs(1),
		Short: "resolves and validates a single query against the configured upstream",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonLog {
				stub.UseJSONLogging()
			}
			if err := stub.SetLogLevel(logLevel); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}

			t, ok := dns.StringToType[qtype]
			if !ok {
				return fmt.Errorf("unknown query type %q", qtype)
			}

			up := upstream.NewSimpleUpstream(upstreamAddr)

			orch, err := stub.NewOrchestrator(up)
			if err != nil {
				return fmt.Errorf("creating orchestrator: %w", err)
			}

			q := new(dns.Msg)
			q.SetQuestion(dns.Fqdn(args[0]), t)
			q.RecursionDesired = true
			q.SetEdns0(4096, true)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			resp, err := orch.Validate(ctx, q)
			if err != nil {
				return err
			}

			if resp.Error() {
				return resp.Err
			}

			fmt.Printf("status:  %s\n", resp.Status)
			fmt.Printf("denial:  %s\n", resp.Denial)
			if resp.Reason != validator.ReasonNone {
				fmt.Printf("reason:  %s (%s)\n", resp.Reason, stub.ReasonText(resp.Reason))
			}
			fmt.Printf("time:    %s\n", resp.Duration)
			fmt.Println()
			fmt.Println(resp.Msg)

			return nil
		},
	}

	c.Flags().StringVarP(&upstreamAddr, "upstream", "u", "1.1.1.1", "upstream recursive resolver address")
	c.Flags().StringVarP(&qtype, "type", "t", "A", "query type (A, AAAA, MX, ...)")
	c.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall query timeout")
	c.Flags().BoolVar(&jsonLog, "json-log", false, "emit structured JSON logs instead of prefixed text")
	c.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return c
}
