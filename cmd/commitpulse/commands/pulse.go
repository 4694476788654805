package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commitpulse/internal/config"
	"github.com/Sumatoshi-tech/commitpulse/internal/observability"
	"github.com/Sumatoshi-tech/commitpulse/internal/plotpage"
	"github.com/Sumatoshi-tech/commitpulse/pkg/avatar"
	"github.com/Sumatoshi-tech/commitpulse/pkg/gitlog"
	"github.com/Sumatoshi-tech/commitpulse/pkg/languages"
	"github.com/Sumatoshi-tech/commitpulse/pkg/publish"
	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
	"github.com/Sumatoshi-tech/commitpulse/pkg/render"
	"github.com/Sumatoshi-tech/commitpulse/pkg/terminal"
)

// LocalPrompt is asked before a local dashboard is generated.
const LocalPrompt = "This will generate a static HTML dashboard locally. Do you wish to proceed? (y/n)"

const (
	anonymousUser = "Anonymous"
	exportPerm    = 0o644
)

// ErrNoRepositories is returned when --scan finds nothing.
var ErrNoRepositories = errors.New("no git repositories found")

// PulseCommand holds the flags and dependencies of the root command.
type PulseCommand struct {
	local      bool
	noOpen     bool
	scan       bool
	exportPath string
	outputDir  string
	configPath string
	theme      string
	noColor    bool
	verbose    bool
	quiet      bool

	deps Deps
}

func newPulseCommand(deps Deps) *cobra.Command {
	pc := &PulseCommand{deps: deps}

	cmd := &cobra.Command{
		Use:   "commitpulse [path]",
		Short: "Visualize the pulse of a Git repository",
		Long: `CommitPulse reads the history of a Git repository and builds a dashboard of
commit activity, contributors and languages.

By default the stats are published to the CommitPulse cloud and a shareable
link is opened. With --local a single HTML file is written instead. All data
is inline, but the charts load echarts.min.js from the go-echarts asset CDN,
so viewing the file needs network access.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          pc.run,
	}

	flags := cmd.Flags()
	flags.BoolVar(&pc.local, "local", false, "Generate a local HTML dashboard instead of publishing")
	flags.BoolVar(&pc.noOpen, "no-open", false, "Do not open the dashboard in a browser")
	flags.BoolVar(&pc.scan, "scan", false, "Analyze every repository found under path")
	flags.StringVar(&pc.exportPath, "export", "", "Also write the raw stats to FILE (.json, .yaml or .yml)")
	flags.StringVarP(&pc.outputDir, "output", "o", "", "Directory for the local dashboard (default: config output.dir)")
	flags.StringVar(&pc.theme, "theme", "", "Dashboard theme: dark or light (default: config output.theme)")
	flags.StringVar(&pc.configPath, "config", "", "Config file (default: .commitpulse.yaml in CWD or $HOME)")

	persistent := cmd.PersistentFlags()
	persistent.BoolVar(&pc.noColor, "no-color", false, "Disable colored output")
	persistent.BoolVarP(&pc.verbose, "verbose", "v", false, "Verbose logging")
	persistent.BoolVarP(&pc.quiet, "quiet", "q", false, "Only print errors and the final result")

	return cmd
}

// session is the per-invocation state shared by the pipeline stages.
type session struct {
	cfg        *config.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	printer    *terminal.Printer
	runner     gitlog.Runner
	classifier *languages.Classifier
	avatars    *avatar.Resolver
	theme      plotpage.Theme
	username   string
}

func (pc *PulseCommand) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	s, err := pc.newSession(cmd)
	if err != nil {
		return err
	}

	if pc.local {
		in := pc.stdin()
		if !pc.quiet && !terminal.IsInteractive(in) {
			s.printer.Warnf("stdin is not a terminal, reading the answer from it")
		}

		ok, confirmErr := terminal.Confirm(in, cmd.OutOrStdout(), LocalPrompt)
		if confirmErr != nil {
			return confirmErr
		}

		if !ok {
			return pulse.ErrUserDeclined
		}
	}

	paths, err := pc.targets(target, s.cfg.Scan.MaxDepth)
	if err != nil {
		return err
	}

	reports := make([]pulse.PulseReport, 0, len(paths))

	for i, path := range paths {
		report, analyzeErr := pc.analyze(ctx, s, path, i == 0)
		if analyzeErr != nil {
			return analyzeErr
		}

		if !pc.quiet {
			summaryErr := terminal.Summary(cmd.OutOrStdout(), report, terminal.DefaultSummaryRows)
			if summaryErr != nil {
				return summaryErr
			}
		}

		reports = append(reports, report)
	}

	if pc.exportPath != "" {
		err = writeExport(pc.exportPath, reports)
		if err != nil {
			return err
		}

		if !pc.quiet {
			s.printer.Infof("Stats exported to %s", pc.exportPath)
		}
	}

	if pc.local {
		return pc.publishLocal(ctx, s, target, reports)
	}

	return pc.publishCloud(ctx, s, reports)
}

func (pc *PulseCommand) newSession(cmd *cobra.Command) (*session, error) {
	loadConfig := pc.deps.LoadConfig
	if loadConfig == nil {
		loadConfig = config.LoadConfig
	}

	cfg, err := loadConfig(pc.configPath)
	if err != nil {
		return nil, err
	}

	logCfg := observability.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logCfg.LogLevel = observability.LevelFor(pc.verbose, pc.quiet)
	logCfg.LogJSON = cfg.Log.JSON
	logger := observability.NewLogger(logCfg)

	theme := cfg.Theme()
	if pc.theme != "" {
		parsed, ok := plotpage.ParseTheme(pc.theme)
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidTheme, pc.theme)
		}

		theme = parsed
	}

	var opts []languages.Option
	if cfg.Languages.VendorFilter {
		opts = append(opts, languages.WithVendorFilter(true))
	}

	resolver, err := avatar.NewResolver(avatar.Config{
		GitHub:     cfg.Avatars.GitHub && !pc.local,
		Token:      cfg.Avatars.Token,
		CacheSize:  cfg.Avatars.CacheSize,
		Timeout:    cfg.Avatars.Timeout,
		HTTPClient: pc.deps.HTTPClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	runner := pc.deps.Runner
	if runner == nil {
		runner = gitlog.ExecRunner{Logger: logger}
	}

	return &session{
		cfg:        cfg,
		logger:     logger,
		tracer:     observability.Tracer(pc.deps.TracerProvider),
		printer:    terminal.NewPrinter(cmd.OutOrStdout(), pc.noColor),
		runner:     runner,
		classifier: languages.NewClassifier(languages.DefaultTable().With(cfg.ExtraLanguages()), opts...),
		avatars:    resolver,
		theme:      theme,
	}, nil
}

func (pc *PulseCommand) stdin() io.Reader {
	if pc.deps.Stdin == nil {
		return os.Stdin
	}

	return pc.deps.Stdin
}

// opener wraps the browser opener so a failure reaches the user as a
// warning. Publishing still succeeds.
func (pc *PulseCommand) opener(s *session) publish.Opener {
	base := pc.deps.Opener
	if base == nil {
		base = publish.SystemOpener{}
	}

	return publish.OpenerFunc(func(ctx context.Context, target string) error {
		err := base.Open(ctx, target)
		if err != nil {
			s.printer.Warnf("Could not open a browser, open %s yourself", target)
		}

		return err
	})
}

func (pc *PulseCommand) now() time.Time {
	if pc.deps.Now == nil {
		return time.Now()
	}

	return pc.deps.Now()
}

func (pc *PulseCommand) getenv(key string) string {
	if pc.deps.Getenv == nil {
		return os.Getenv(key)
	}

	return pc.deps.Getenv(key)
}

func (pc *PulseCommand) targets(target string, maxDepth int) ([]string, error) {
	if !pc.scan {
		return []string{target}, nil
	}

	paths, err := gitlog.Discover(target, maxDepth)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %w under %s", pulse.ErrNotARepository, ErrNoRepositories, target)
	}

	return paths, nil
}

// analyze runs the read, classify and aggregate stages for one repository.
// The first repository also provides the publishing user name.
func (pc *PulseCommand) analyze(ctx context.Context, s *session, path string, first bool) (pulse.PulseReport, error) {
	var (
		repo    *gitlog.Repository
		commits []pulse.Commit
		files   []pulse.TrackedFile
	)

	err := observability.RunStage(ctx, s.tracer, observability.StageRead, func(ctx context.Context) error {
		var err error

		repo, err = gitlog.Open(ctx, path, s.runner)
		if err != nil {
			return err
		}

		commits, err = repo.Commits(ctx)
		if err != nil {
			return err
		}

		files, err = repo.Files(ctx)

		return err
	}, attribute.String("path", path))
	if err != nil {
		return pulse.PulseReport{}, err
	}

	s.logger.Debug("history read", "repo", repo.Name, "commits", len(commits), "files", len(files))

	if first && !pc.local {
		s.username = pc.resolveUsername(ctx, s, repo)
	}

	err = observability.RunStage(ctx, s.tracer, observability.StageClassify, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		total := len(files)
		files = slices.DeleteFunc(files, func(f pulse.TrackedFile) bool { return s.classifier.Ignored(f.Path) })
		s.logger.DebugContext(ctx, "files classified", "repo", repo.Name, "kept", len(files), "ignored", total-len(files))

		return nil
	}, attribute.String("repo", repo.Name))
	if err != nil {
		return pulse.PulseReport{}, err
	}

	var report pulse.PulseReport

	err = observability.RunStage(ctx, s.tracer, observability.StageAggregate, func(ctx context.Context) error {
		report = pulse.Aggregate(repo.Info(), commits, files, s.classifier, pulse.Options{Now: pc.now})
		s.avatars.Apply(ctx, &report)

		return ctx.Err()
	}, attribute.String("repo", repo.Name), attribute.Int("commits", len(commits)))
	if err != nil {
		return pulse.PulseReport{}, err
	}

	return report, nil
}

// resolveUsername prefers git config user.name, then $USER.
func (pc *PulseCommand) resolveUsername(ctx context.Context, s *session, repo *gitlog.Repository) string {
	name, err := repo.UserName(ctx)
	if err != nil {
		s.logger.Debug("git user.name unavailable", "error", err)
	}

	if name != "" {
		return name
	}

	if user := pc.getenv("USER"); user != "" {
		return user
	}

	return anonymousUser
}

func writeExport(path string, reports []pulse.PulseReport) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, exportPerm)
	if err != nil {
		return fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: close %s: %w", pulse.ErrFileSystem, path, closeErr))
		}
	}()

	err = render.Export(f, reports, render.FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	return nil
}

func (pc *PulseCommand) publishLocal(ctx context.Context, s *session, target string, reports []pulse.PulseReport) error {
	var html []byte

	err := observability.RunStage(ctx, s.tracer, observability.StageRender, func(context.Context) error {
		var err error

		html, err = render.Dashboard(reports, s.theme)

		return err
	})
	if err != nil {
		return err
	}

	name := reports[0].Name
	if pc.scan {
		abs, absErr := filepath.Abs(target)
		if absErr != nil {
			return fmt.Errorf("%w: %w", pulse.ErrFileSystem, absErr)
		}

		name = filepath.Base(abs)
	}

	local := publish.Local{
		Dir:    pc.outputDir,
		Opener: pc.opener(s),
		NoOpen: pc.noOpen,
		Logger: s.logger,
	}
	if local.Dir == "" {
		local.Dir = s.cfg.Output.Dir
	}

	var path string

	err = observability.RunStage(ctx, s.tracer, observability.StagePublish, func(ctx context.Context) error {
		var err error

		path, err = local.Publish(ctx, name, html)

		return err
	}, attribute.String("mode", "local"))
	if err != nil {
		return err
	}

	s.printer.Successf("Dashboard saved to %s", path)

	return nil
}

func (pc *PulseCommand) publishCloud(ctx context.Context, s *session, reports []pulse.PulseReport) error {
	var body []byte

	err := observability.RunStage(ctx, s.tracer, observability.StageRender, func(context.Context) error {
		payload := render.NewPayload(s.username, reports)

		err := payload.Validate()
		if err != nil {
			return err
		}

		body, err = payload.Encode()

		return err
	})
	if err != nil {
		return err
	}

	cloud := publish.Cloud{
		BaseURL: s.cfg.Cloud.URL,
		Timeout: s.cfg.Cloud.Timeout,
		Client:  pc.deps.HTTPClient,
		Opener:  pc.opener(s),
		NoOpen:  pc.noOpen,
		Logger:  s.logger,
	}

	var shareURL string

	err = observability.RunStage(ctx, s.tracer, observability.StagePublish, func(ctx context.Context) error {
		var err error

		shareURL, err = cloud.Publish(ctx, body)

		return err
	}, attribute.String("mode", "cloud"))
	if err != nil {
		return err
	}

	s.printer.Successf("Dashboard published: %s", shareURL)

	return nil
}
