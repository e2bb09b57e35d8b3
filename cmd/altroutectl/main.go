// Command altroutectl calls an API using alternative routing when the
// primary route is unreachable.
//
// The configuration is read from ALTROUTE_* environment variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/altroute/altroute/internal/apimanager"
	"github.com/altroute/altroute/internal/model"
	"github.com/altroute/altroute/internal/version"
	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// errErrorResponse indicates that the API returned an error response.
var errErrorResponse = errors.New("error response")

// rootFlags contains the flags shared by all the commands.
type rootFlags struct {
	metricsAddr string
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand(defaultHTTPClient()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command.
func newRootCommand(client model.HTTPClient) *cobra.Command {
	rf := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "altroutectl",
		Short:        "Call an API using DNS-over-HTTPS discovered alternative routes",
		Version:      version.Version,
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&rf.metricsAddr, "metrics-addr", "", "OPTIONAL address where to serve prometheus metrics")
	flags.BoolVarP(&rf.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newCallCommand(client, rf))
	cmd.AddCommand(newRefreshCommand(client, rf))
	cmd.AddCommand(newStatusCommand(client, rf))
	return cmd
}

// setup creates the logger and the session, and starts the metrics server when needed.
func setup(cmd *cobra.Command, client model.HTTPClient, rf *rootFlags) (*session, error) {
	logger := newLogger(cmd.ErrOrStderr(), rf.verbose)
	envs, err := parseEnvironment()
	if err != nil {
		logger.Warnf("altroutectl: %s", err.Error())
		return nil, err
	}
	if rf.metricsAddr != "" {
		startMetricsServer(cmd.Context(), logger, rf.metricsAddr)
	}
	sess, err := newSession(envs, client, logger)
	if err != nil {
		logger.Warnf("altroutectl: cannot create session: %s", err.Error())
		return nil, err
	}
	return sess, nil
}

// startMetricsServer serves prometheus metrics until ctx is done.
func startMetricsServer(ctx context.Context, logger *log.Logger, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("serving prometheus metrics at http://%s/metrics", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warnf("altroutectl: metrics server: %s", err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}

// callFlags contains the flags of the call command.
type callFlags struct {
	backoff bool
	data    string
	headers []string
	method  string
}

// newCallCommand creates the call command.
func newCallCommand(client model.HTTPClient, rf *rootFlags) *cobra.Command {
	cf := &callFlags{}
	cmd := &cobra.Command{
		Use:   "call <path>",
		Short: "Call the API and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := setup(cmd, client, rf)
			if err != nil {
				return err
			}
			req, err := cf.newRequest(args[0])
			if err != nil {
				return err
			}
			result := apimanager.Call(cmd.Context(), sess.manager, cf.backoff,
				func(ctx context.Context, backend model.Backend) model.Result[[]byte] {
					return backend.Do(ctx, req)
				})
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&cf.backoff, "backoff", false, "Retry transient failures of the primary route")
	flags.StringVarP(&cf.data, "data", "d", "", "OPTIONAL JSON request body")
	flags.StringArrayVarP(&cf.headers, "header", "H", nil, "OPTIONAL extra header as 'Key: Value'")
	flags.StringVarP(&cf.method, "method", "X", "", "HTTP method (default GET, or POST with --data)")
	return cmd
}

// newRequest creates the [*model.Request] for the given URL path.
func (cf *callFlags) newRequest(urlPath string) (*model.Request, error) {
	req := &model.Request{
		Accept:  "application/json",
		Header:  http.Header{},
		Method:  cf.method,
		URLPath: urlPath,
	}
	if cf.data != "" {
		if !json.Valid([]byte(cf.data)) {
			return nil, errors.New("--data: not valid JSON")
		}
		req.ContentType = "application/json"
		req.RequestBody = []byte(cf.data)
	}
	if req.Method == "" {
		req.Method = http.MethodGet
		if cf.data != "" {
			req.Method = http.MethodPost
		}
	}
	for _, header := range cf.headers {
		key, value, found := strings.Cut(header, ":")
		if !found {
			return nil, fmt.Errorf("--header: invalid header: %s", header)
		}
		req.Header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return req, nil
}

// printResult writes the result to w and maps non-successes to errors.
func printResult(w io.Writer, result model.Result[[]byte]) (err error) {
	result.Match(
		func(body []byte) {
			_, err = w.Write(body)
		},
		func(httpCode int, body string) {
			fmt.Fprintln(w, body)
			err = fmt.Errorf("%w: %d", errErrorResponse, httpCode)
		},
		func(failure error, kind model.FailureKind) {
			err = fmt.Errorf("%s: %w", kind, failure)
		},
	)
	return
}

// newRefreshCommand creates the refresh command.
func newRefreshCommand(client model.HTTPClient, rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Discover the alternative routes using DNS over HTTPS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := setup(cmd, client, rf)
			if err != nil {
				return err
			}
			if err := sess.coordinator.RefreshDomains(cmd.Context()); err != nil {
				sess.logger.Warnf("altroutectl: %s", err.Error())
				return err
			}
			for _, route := range sess.coordinator.Routes() {
				fmt.Fprintln(cmd.OutOrStdout(), route)
			}
			return nil
		},
	}
}

// status is the output of the status command.
type status struct {
	ActiveRoute        string
	AlternativeRouting bool
	LastRefresh        time.Time
	Routes             []string
	Session            string
	TunnelActive       bool
}

// newStatusCommand creates the status command.
func newStatusCommand(client model.HTTPClient, rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the known alternative routes as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := setup(cmd, client, rf)
			if err != nil {
				return err
			}
			st := &status{
				ActiveRoute:        sess.manager.ActiveRoute(),
				AlternativeRouting: sess.settings.Get(),
				LastRefresh:        sess.coordinator.LastRefresh(),
				Routes:             sess.coordinator.Routes(),
				Session:            sess.id,
				TunnelActive:       sess.tunnel.Get(),
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(st)
		},
	}
}
