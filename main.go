package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"floorwatch/config"
	"floorwatch/di"
	"floorwatch/models"
	services "floorwatch/service"
	"floorwatch/util"
)

const reaperInterval = time.Minute

var (
	factoryFlag  string
	buildingFlag string
	dateFlag     string
	lineFlag     string
	viewFlag     string
	outFlag      string
)

var rootCmd = &cobra.Command{
	Use:           "floorwatch",
	Short:         "Production floor dashboards backed by the floor API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard, report and form API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Poll one tick for a view and print the dashboard state as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

var chartCmd = &cobra.Command{
	Use:       "chart {variance|summary}",
	Short:     "Render a chart to an HTML file",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"variance", "summary"},
	RunE:      runChart,
}

func init() {
	for _, cmd := range []*cobra.Command{snapshotCmd, chartCmd} {
		cmd.Flags().StringVar(&factoryFlag, "factory", "", "factory filter")
		cmd.Flags().StringVar(&buildingFlag, "building", "", "building filter")
		cmd.Flags().StringVar(&dateFlag, "date", time.Now().Format("2006-01-02"), "production date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&lineFlag, "line", "", "line filter")
		cmd.Flags().StringVar(&viewFlag, "view", "tv", "dashboard view")
	}
	chartCmd.Flags().StringVarP(&outFlag, "out", "o", "chart.html", "output file")
	rootCmd.AddCommand(serveCmd, snapshotCmd, chartCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newContainer(ctx context.Context) (*di.Container, error) {
	cfg := config.FromEnv()
	logger, err := di.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return container, nil
}

func closeContainer(c *di.Container) {
	if err := c.Close(); err != nil {
		c.Logger.Warn("failed to close container", zap.Error(err))
	}
	_ = c.Logger.Sync()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	go container.PollerRegistry.StartReaper(ctx, reaperInterval)
	return container.FloorwatchHttpServer.Start(ctx)
}

func filterFromFlags() models.DashboardFilter {
	return models.DashboardFilter{
		Factory:  factoryFlag,
		Building: buildingFlag,
		Date:     dateFlag,
		Line:     lineFlag,
	}
}

// tickOnce runs a single poll outside the registry so the command exits
// without waiting on a poller loop.
func tickOnce(ctx context.Context, c *di.Container) (*services.DashboardPoller, error) {
	view, err := config.View(viewFlag)
	if err != nil {
		return nil, err
	}
	poller := services.NewDashboardPoller(view, filterFromFlags(), c.FloorAPI, c.RedisDashboardDao, c.Logger)
	if err := poller.Tick(ctx); err != nil {
		return nil, err
	}
	return poller, nil
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	poller, err := tickOnce(ctx, container)
	if err != nil {
		return err
	}
	state, err := container.DashboardService.Snapshot(viewFlag, poller.Filter(), poller.Displayed())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	defer closeContainer(container)

	f, err := os.Create(outFlag)
	if err != nil {
		return err
	}
	defer f.Close()

	switch args[0] {
	case "variance":
		err = writeVarianceChart(ctx, container, f)
	case "summary":
		err = writeSummaryChart(ctx, container, f)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", outFlag)
	return nil
}

func writeVarianceChart(ctx context.Context, c *di.Container, w io.Writer) error {
	poller, err := tickOnce(ctx, c)
	if err != nil {
		return err
	}
	displayed := poller.Displayed()
	if displayed == "" {
		if displayed, err = firstSegment(ctx, c, poller); err != nil {
			return err
		}
	}
	points, err := c.DashboardService.Variance(poller.Filter(), displayed)
	if err != nil {
		return err
	}
	return util.RenderVarianceChart(w, "Hourly variance "+displayed, points)
}

// firstSegment selects the first row for views that do not auto-select and
// fetches its variance.
func firstSegment(ctx context.Context, c *di.Container, poller *services.DashboardPoller) (string, error) {
	state, err := c.DashboardService.Snapshot(viewFlag, poller.Filter(), "")
	if err != nil {
		return "", err
	}
	if len(state.Rows) == 0 {
		return "", fmt.Errorf("no segments for %s", poller.Filter().Key())
	}
	key := state.Rows[0].Key
	if err := poller.Select(key); err != nil {
		return "", err
	}
	if err := poller.RefreshDisplayed(ctx); err != nil {
		return "", err
	}
	return key, nil
}

func writeSummaryChart(ctx context.Context, c *di.Container, w io.Writer) error {
	resp, err := c.SummaryService.Summary(ctx, models.SummaryQuery{
		Factory:  factoryFlag,
		Date:     dateFlag,
		Building: buildingFlag,
	})
	if err != nil {
		return err
	}
	return util.RenderSummaryChart(w, "Floor summary "+dateFlag, services.SummaryBars(resp))
}
