package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/agri-advisor/internal/advisor"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/httpapi"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
	"github.com/danielpatrickdp/agri-advisor/internal/store"
)

// #region app
// newCLIApp creates the CLI application with all commands.
func newCLIApp(open opener) *cli.App {
	app := &cli.App{
		Name:  "agri-advisor",
		Usage: "Grounded farming advice from farm profiles, soil data and curated knowledge",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"AGRI_CONFIG"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the config"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides config)"},
		},
		Commands: []*cli.Command{
			askCmd(open),
			chatCmd(open),
			insightsCmd(),
			seedCmd(open),
			historyCmd(open),
			serveCmd(open),
			relayCmd(open),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion app

// #region ask
func askCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer one farming question",
		ArgsUsage: "<question>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "answer language code (en, hi, ta, ...)"},
			&cli.Int64Flag{Name: "profile", Aliases: []string{"p"}, Usage: "user id whose farms ground the answer"},
			&cli.StringFlag{Name: "session", Usage: "session id to continue"},
			&cli.BoolFlag{Name: "json", Usage: "print the full response as JSON"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return errors.New("a question is required")
			}
			e, err := open(c, true)
			if err != nil {
				return err
			}
			defer e.Close()

			req := advisor.Request{Query: query, Language: c.String("language"), SessionID: c.String("session")}
			if c.IsSet("profile") {
				id := c.Int64("profile")
				req.ProfileRef = &id
			}
			resp := e.advisor().Answer(c.Context, req)
			if c.Bool("json") {
				return writeJSON(c.App.Writer, resp)
			}
			fmt.Fprintln(c.App.Writer, resp.Text)
			if !resp.Success {
				return fmt.Errorf("answer failed: %s", resp.ErrorKind)
			}
			return nil
		},
	}
}

// #endregion ask

// #region chat
func chatCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive session; type 'quit' to exit",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Aliases: []string{"l"}, Usage: "answer language code"},
			&cli.Int64Flag{Name: "profile", Aliases: []string{"p"}, Usage: "user id whose farms ground the answers"},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c, true)
			if err != nil {
				return err
			}
			defer e.Close()

			adv := e.advisor()
			session := uuid.NewString()
			var ref *int64
			if c.IsSet("profile") {
				id := c.Int64("profile")
				ref = &id
			}

			out := c.App.Writer
			fmt.Fprintln(out, prompt.Greeting(c.String("language")))
			fmt.Fprintf(out, "Session %s\n", session)
			scanner := bufio.NewScanner(c.App.Reader)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}
				resp := adv.Answer(c.Context, advisor.Request{
					Query: line, Language: c.String("language"), ProfileRef: ref, SessionID: session,
				})
				fmt.Fprintln(out, resp.Text)
				fmt.Fprintf(out, "  [confidence %.2f | %s]\n", resp.Confidence, resp.Elapsed.Round(time.Millisecond))
			}
			return scanner.Err()
		},
	}
}

// #endregion chat

// #region insights
// insightsInput is the YAML/JSON document read by the insights command.
type insightsInput struct {
	Soil       insights.SoilMeasurement `yaml:"soil" json:"soil"`
	Conditions *insights.Conditions     `yaml:"conditions" json:"conditions"`
}

func insightsCmd() *cli.Command {
	return &cli.Command{
		Name:  "insights",
		Usage: "Run the rule-based soil analysis on a measurement file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "YAML file with soil and optional conditions"},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("file"))
			if err != nil {
				return fmt.Errorf("read measurement: %w", err)
			}
			var in insightsInput
			if err := yaml.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("parse measurement: %w", err)
			}
			cond := in.Soil.Conditions()
			if in.Conditions != nil {
				cond = *in.Conditions
			}
			return writeJSON(c.App.Writer, insights.Infer(in.Soil, cond))
		},
	}
}

// #endregion insights

// #region seed
func seedCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load users, farms, crops, soils and knowledge from a YAML fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "fixture file"},
		},
		Action: func(c *cli.Context) error {
			fixture, err := store.LoadFixture(c.String("file"))
			if err != nil {
				return err
			}
			e, err := open(c, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.Seed(c.Context, fixture); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "seeded %d users, %d crops, %d soils, %d records\n",
				len(fixture.Users), len(fixture.Crops), len(fixture.Soils),
				len(fixture.Knowledge)+len(fixture.FAQs)+len(fixture.Practices))
			return nil
		},
	}
}

// #endregion seed

// #region history
func historyCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show the latest logged exchanges",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10, Usage: "number of exchanges"},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c, false)
			if err != nil {
				return err
			}
			defer e.Close()

			rows, err := e.store.RecentHistory(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, rows)
		},
	}
}

// #endregion history

// #region serve
func serveCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c, true)
			if err != nil {
				return err
			}
			defer e.Close()

			addr := e.cfg.HTTPAddr
			if a := c.String("addr"); a != "" {
				addr = a
			}
			if !e.cfg.Logging.Development {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewRouter(httpapi.NewHandler(e.advisor(), e.log)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			e.log.Info("[HTTP] listening", zap.String("addr", addr))

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve http: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// #endregion serve

// #region relay
// relayCmd exposes the configured generation backend as the gRPC Generation
// service so several advisors can share one upstream model key.
func relayCmd(open opener) *cli.Command {
	return &cli.Command{
		Name:  "relay",
		Usage: "Serve the configured generation backend over gRPC",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Value: ":50051", Usage: "gRPC listen address"},
		},
		Action: func(c *cli.Context) error {
			e, err := open(c, true)
			if err != nil {
				return err
			}
			defer e.Close()

			lis, err := net.Listen("tcp", c.String("listen"))
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			srv := grpc.NewServer()
			generation.RegisterServer(srv, generation.NewBounded(e.generator, e.cfg.Generation.Timeout))

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				srv.GracefulStop()
			}()
			e.log.Info("[RELAY] listening", zap.String("addr", lis.Addr().String()))
			if err := srv.Serve(lis); err != nil {
				return fmt.Errorf("serve grpc: %w", err)
			}
			return nil
		},
	}
}

// #endregion relay
