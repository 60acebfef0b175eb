package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/authsession/auth"
	"github.com/viant/authsession/config"
	"github.com/viant/authsession/mock"
	"github.com/viant/authsession/store"
	"github.com/viant/authsession/transport"
)

// Runner executes authsession commands against the configured backend.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Listening, when set, receives the address serve-mock bound to.
	Listening func(addr string)
}

func New() *Runner {
	return &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string) error {
	return New().Run(ctx, args)
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "authsession"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(r.Stdout, flagsErr.Message)
			return nil
		}
		return err
	}
	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}
	logger := cfg.Logger(r.Stderr)
	if parser.Active.Name == "serve-mock" {
		return r.serveMock(ctx, options.ServeMock.Address, logger)
	}

	kv, closer, err := cfg.OpenStore(logger)
	if err != nil {
		return err
	}
	defer closeStore(closer, logger)
	registry := prometheus.NewRegistry()
	transportOptions := append(cfg.TransportOptions(), transport.WithMetrics(registry))
	service, err := auth.New(store.NewTokenEntry(kv, cfg.Session.TokenKey),
		auth.WithLogger(logger),
		auth.WithRedirector(transport.RedirectFunc(r.sessionExpired)),
		auth.WithTransportOptions(transportOptions...),
	)
	if err != nil {
		return err
	}
	if options.MetricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(options.MetricsFile, registry); err != nil {
				logger.Warn("failed to write metrics", "path", options.MetricsFile, "error", err)
			}
		}()
	}

	switch parser.Active.Name {
	case "login":
		return r.login(ctx, service, &options.Login)
	case "logout":
		if err := service.Logout(ctx); err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.Stdout, "signed out")
		return err
	case "status":
		return r.status(service)
	case "whoami":
		profile, err := service.Profile(ctx)
		if err != nil {
			return err
		}
		return r.printJSON(profile)
	case "get":
		data, err := service.Client().Get(ctx, options.Get.Args.Path)
		if err != nil {
			return err
		}
		_, err = r.Stdout.Write(data)
		return err
	}
	return fmt.Errorf("unsupported command %q", parser.Active.Name)
}

func closeStore(closer io.Closer, logger *slog.Logger) {
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
}

func (r *Runner) login(ctx context.Context, service *auth.Service, options *LoginOptions) error {
	password := options.Password
	if password == "" {
		_, _ = fmt.Fprint(r.Stderr, "password: ")
		line, err := bufio.NewReader(r.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	profile, err := service.Login(ctx, &auth.Credentials{Username: options.Username, Password: password})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.Stdout, "signed in as %s\n", profile.Username)
	return err
}

func (r *Runner) status(service *auth.Service) error {
	sess := service.Session()
	if _, err := fmt.Fprintln(r.Stdout, sess.State()); err != nil {
		return err
	}
	claims, ok := sess.Claims()
	if !ok {
		return nil
	}
	if claims.Subject != "" {
		_, _ = fmt.Fprintf(r.Stdout, "subject: %s\n", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		state := "valid"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		_, _ = fmt.Fprintf(r.Stdout, "expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), state)
	}
	return nil
}

func (r *Runner) sessionExpired(_ context.Context, location string) {
	_, _ = fmt.Fprintf(r.Stderr, "session expired, sign in again with 'authsession login' (%s)\n", location)
}

func (r *Runner) printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.Stdout, string(data))
	return err
}

func (r *Runner) serveMock(ctx context.Context, address string, logger *slog.Logger) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	server := &http.Server{Handler: mock.New().Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	logger.Info("mock backend listening", "address", listener.Addr().String())
	if r.Listening != nil {
		r.Listening(listener.Addr().String())
	}
	if err = server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
