package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weathercast/internal/api/http"
	"github.com/i474232898/weathercast/internal/app"
	"github.com/i474232898/weathercast/internal/config"
	"github.com/i474232898/weathercast/internal/location"
	"github.com/i474232898/weathercast/internal/render"
	"github.com/i474232898/weathercast/internal/scheduler"
	"github.com/i474232898/weathercast/internal/store"
	"github.com/i474232898/weathercast/internal/weather"
	"github.com/i474232898/weathercast/internal/weather/providers"
)

// deps holds everything built from the configuration.
type deps struct {
	cfg      *config.AppConfig
	store    store.Closer
	service  *weather.Service
	resolver *location.Resolver
}

func build() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	owm := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)
	cascade := weather.NewCascade(cfg.StepTimeout,
		providers.NewWttrProvider(httpClient, cfg.PrimaryBaseURL),
		owm,
		providers.NewOpenWeatherRelay(httpClient, owm, cfg.Relays),
	)

	st, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &deps{
		cfg:      cfg,
		store:    st,
		service:  weather.NewService(cascade, st, cfg.DefaultCity),
		resolver: location.NewResolver(newLocator(cfg)),
	}, nil
}

func newLocator(cfg *config.AppConfig) location.Locator {
	switch {
	case cfg.DeviceAddress != "" && cfg.GeocoderAPIKey != "":
		return location.NewGeocoderLocator(cfg.GeocoderAPIKey, cfg.DeviceAddress)
	case cfg.DeviceLat != nil && cfg.DeviceLon != nil:
		return location.StaticLocator{Position: location.Position{Latitude: *cfg.DeviceLat, Longitude: *cfg.DeviceLon}}
	default:
		return nil
	}
}

func newRenderer(output string, w io.Writer) (render.Renderer, error) {
	switch output {
	case "text":
		return render.Text{W: w}, nil
	case "json":
		return render.JSON{W: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", output)
	}
}

func main() {
	var output string

	rootCmd := &cobra.Command{
		Use:           "weathercast",
		Short:         "Current weather with provider fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format (text, json)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := build()
			if err != nil {
				return err
			}
			defer d.store.Close()
			return serve(cmd.Context(), d)
		},
	}

	var lat, lon float64
	getCmd := &cobra.Command{
		Use:   "get [city]",
		Short: "Show the weather for a city, coordinates or the last searched city",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := build()
			if err != nil {
				return err
			}
			defer d.store.Close()

			r, err := newRenderer(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			switch {
			case cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"):
				return r.Render(d.service.Resolve(ctx, weather.ByCoordinates(lat, lon)))
			case len(args) == 0:
				return r.Render(d.service.Resolve(ctx, d.service.InitialQuery(ctx)))
			}

			q, err := location.FromUserInput(strings.Join(args, " "))
			if err != nil {
				_ = r.Error(location.Message(err))
				return err
			}
			return r.Render(d.service.Resolve(ctx, q))
		},
	}
	getCmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	getCmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	getCmd.MarkFlagsRequiredTogether("lat", "lon")

	locateCmd := &cobra.Command{
		Use:   "locate",
		Short: "Show the weather at the configured device location",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := build()
			if err != nil {
				return err
			}
			defer d.store.Close()

			r, err := newRenderer(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = app.New(d.resolver, d.service, r).Locate(cmd.Context())
			return err
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive session: type a city per line, :locate for the device, :refresh to reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := build()
			if err != nil {
				return err
			}
			defer d.store.Close()

			r, err := newRenderer(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return watch(cmd.Context(), d, app.New(d.resolver, d.service, r), cmd.InOrStdin())
		},
	}

	rootCmd.AddCommand(serveCmd, getCmd, locateCmd, watchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, d *deps) error {
	srv := httpapi.NewApp(d.service, d.resolver)

	go func() {
		log.Printf("INFO: listening on :%s", d.cfg.Port)
		if err := srv.Listen(":" + d.cfg.Port); err != nil {
			log.Printf("ERROR: fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("ERROR: during shutdown: %v", err)
	}
	return nil
}

// watch runs an interactive session. Each line starts a request in the
// background, so a new line cancels the one still running. On end of input it
// waits for requests in flight.
func watch(ctx context.Context, d *deps, a *app.App, in io.Reader) error {
	sched := scheduler.New(d.cfg.RefreshInterval, 30*time.Second, func(ctx context.Context) error {
		_, err := a.Refresh(ctx)
		if errors.Is(err, app.ErrSuperseded) {
			return nil
		}
		return err
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	spawn := func(fn func(context.Context) (weather.Result, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fn(ctx)
		}()
	}

	spawn(a.Start)

	lines := bufio.NewScanner(in)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		switch line {
		case ":quit", ":q":
			return nil
		case ":locate":
			spawn(a.Locate)
		case ":refresh":
			spawn(a.Refresh)
		default:
			spawn(func(ctx context.Context) (weather.Result, error) {
				return a.Search(ctx, line)
			})
		}
	}
	return lines.Err()
}
