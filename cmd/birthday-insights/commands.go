package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tartampluch/birthday-insights/internal/config"
	"github.com/tartampluch/birthday-insights/internal/engine"
	"github.com/tartampluch/birthday-insights/internal/locale"
	"github.com/tartampluch/birthday-insights/internal/zodiac"
)

// cli holds the state shared by the commands. Zero-valued dependencies are
// replaced by the real ones.
type cli struct {
	debug      bool
	configPath string

	settings  *config.Settings
	logCloser io.Closer

	clock engine.Clock
	store config.TokenStore
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               config.CommandName,
		Short:             config.CmdShortRoot,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.PersistentFlags().StringVar(&c.configPath, config.FlagConfig, "", config.FlagDescConfig)

	root.AddCommand(
		c.serveCommand(),
		c.ageCommand(),
		c.contactsCommand(),
		c.tokenCommand(),
		c.versionCommand(),
	)
	return root
}

// setup initializes logging and loads the settings before any command runs.
// The server logs to stdout; the other commands keep stdout for their results.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	console := cmd.ErrOrStderr()
	if cmd.Name() == config.CmdUseServe {
		console = cmd.OutOrStdout()
	}
	c.logCloser = setupLogging(c.debug, console)

	s, err := config.LoadSettings(c.configPath)
	if err != nil {
		return err
	}
	c.settings = s
	return nil
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close() // Best effort close
	}
}

func (c *cli) clockOrDefault() engine.Clock {
	if c.clock == nil {
		return engine.RealClock{}
	}
	return c.clock
}

func (c *cli) tokenStore() config.TokenStore {
	if c.store == nil {
		return config.NewKeyringToken()
	}
	return c.store
}

func (c *cli) translator(lang string) (*locale.Translator, error) {
	catalog, err := locale.Load()
	if err != nil {
		return nil, err
	}
	return catalog.For(lang, c.settings.Insights.Language), nil
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logStartupInfo()
			return serve(cmd.Context(), c.settings, c.clockOrDefault(), c.tokenStore())
		},
	}
}

func (c *cli) ageCommand() *cobra.Command {
	var (
		at    string
		lang  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   config.CmdUseAge,
		Short: config.CmdShortAge,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock := c.clockOrDefault()
			if at != "" {
				ref, err := time.Parse(config.DateFormatRFC3339, at)
				if err != nil {
					return fmt.Errorf("%s: %w", config.ErrDateParse, err)
				}
				clock = engine.FixedClock(ref)
			}
			birth, err := time.ParseInLocation(config.DateFormatFullDash, args[0], clock.Now().Location())
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrDateParse, err)
			}
			tr, err := c.translator(lang)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !watch {
				return printAge(out, tr, birth, clock.Now())
			}

			var printErr error
			ticker := engine.Ticker{Clock: clock, Interval: c.settings.Insights.RefreshInterval}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			err = ticker.Run(ctx, func(now time.Time) {
				if err := printAge(out, tr, birth, now); err != nil {
					printErr = err
					cancel()
				}
			})
			if printErr != nil {
				return printErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&at, config.FlagAt, "", config.FlagDescAt)
	cmd.Flags().StringVar(&lang, config.FlagLang, "", config.FlagDescLang)
	cmd.Flags().BoolVar(&watch, config.FlagWatch, false, config.FlagDescWatch)
	return cmd
}

// printAge writes the localized age sentences of birth as of now.
func printAge(w io.Writer, tr *locale.Translator, birth, now time.Time) error {
	age, err := engine.Compute(birth, now)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrFutureBirth, err)
	}
	entry := engine.NewBirthdayEntry("", birth, true, now)

	lines := []string{tr.AgeSummary(age), tr.DayOfLife(age.DayOfLife)}
	lines = append(lines, tr.TimeOnEarth(age)...)
	lines = append(lines, tr.ZodiacLine(zodiac.SignOf(birth)), tr.Countdown(entry.DaysUntil(now)))

	_, err = fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func (c *cli) contactsCommand() *cobra.Command {
	var (
		user    string
		passEnv string
		lang    string
	)
	cmd := &cobra.Command{
		Use:   config.CmdUseContacts,
		Short: config.CmdShortContacts,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := engine.ContactSource{
				Path: c.settings.Contacts.Path,
				URL:  c.settings.Contacts.URL,
				User: c.settings.Contacts.User,
				Pass: c.settings.Contacts.Password,
			}
			if len(args) == 1 {
				src = contactSource(args[0])
			}
			if user != "" {
				src.User = user
			}
			if passEnv != "" {
				src.Pass = os.Getenv(passEnv)
			}

			tr, err := c.translator(lang)
			if err != nil {
				return err
			}
			loader := &engine.ContactLoader{Clock: c.clockOrDefault(), Fetcher: engine.NewHTTPFetcher()}
			entries, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			now := c.clockOrDefault().Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, config.FormatContactLine,
					e.NextOccurrence.Format(config.DateFormatFullDash),
					tr.EventSummary(e.Name, e.AgeNext, e.YearKnown),
					tr.Countdown(e.DaysUntil(now)),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	cmd.Flags().StringVar(&passEnv, config.FlagPass, "", config.FlagDescPass)
	cmd.Flags().StringVar(&lang, config.FlagLang, "", config.FlagDescLang)
	return cmd
}

// contactSource reads an http(s) URL as a remote source and anything else as a file path.
func contactSource(arg string) engine.ContactSource {
	if u, err := url.Parse(arg); err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		return engine.ContactSource{URL: arg}
	}
	return engine.ContactSource{Path: arg}
}

func (c *cli) tokenCommand() *cobra.Command {
	var fromStdin bool
	set := &cobra.Command{
		Use:   config.CmdUseTokenSet,
		Short: config.CmdShortTokenSet,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			switch {
			case fromStdin:
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					token = scanner.Text()
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			case len(args) == 1:
				token = args[0]
			default:
				return errors.New(config.ErrArgCount)
			}
			return c.tokenStore().Set(token)
		},
	}
	set.Flags().BoolVar(&fromStdin, config.FlagTokenIn, false, config.FlagDescTokenIn)

	del := &cobra.Command{
		Use:   config.CmdUseTokenDel,
		Short: config.CmdShortTokenDel,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.tokenStore().Delete()
		},
	}

	token := &cobra.Command{
		Use:   config.CmdUseToken,
		Short: config.CmdShortToken,
	}
	token.AddCommand(set, del)
	return token
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdUseVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		// Printing the version needs neither logging nor settings.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
