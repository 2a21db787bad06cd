package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/focusdeck/internal/scheduler"
	"github.com/sandeepkv93/focusdeck/internal/update"
)

type rootOptions struct {
	configFile string
}

// NewRootCommand builds the focusdeck command tree. Without a subcommand it
// starts the dashboard.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "focusdeck",
		Short:         "Personal productivity dashboard in the terminal",
		Long:          "Tasks, syllabus, weekly timetable, focus timer and notes, kept in per-workspace state on disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")

	root.AddCommand(
		newExportCommand(opts),
		newImportCommand(opts),
		newResetCommand(opts),
		newStatusCommand(opts),
	)
	return root
}

func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	a, err := bootstrap(cmd.Context(), opts.configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	timers := scheduler.NewQueue(a.cfg.TimerBuffer)
	timers.Start()
	defer timers.Stop()

	m := update.NewModel(a.eng, update.Options{
		Timers:               timers,
		Notifier:             update.ExecDesktopNotifier{},
		DesktopNotifications: a.cfg.DesktopNotify,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	refresh := scheduler.NewPeriodic(a.eng, a.cfg.CheckInterval, a.loc, a.logger)
	refresh.OnChange(func() { program.Send(update.RefreshedMsg{}) })
	if err := refresh.Start(); err != nil {
		return err
	}
	defer refresh.Stop()

	_, err = program.Run()
	if dropped := timers.Dropped(); dropped > 0 {
		a.logger.Sugar().Warnf("%d timer events dropped", dropped)
	}
	return err
}
