package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/jpl-au/revlog"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

type app struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	file     string
	config   string
	jsonMode bool
	name     string
}

// newRootCmd builds the command tree reading from in and writing to out
// and errOut.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "revlog",
		Short: "Differential text-version store",
		Long: `revlog keeps every committed version of a text in a single file,
storing each as a snapshot or as the smallest edit from an earlier version.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.file, "file", "f", "history.rev", "storage file")
	root.PersistentFlags().StringVar(&a.config, "config", "", "YAML config file")

	commit := &cobra.Command{
		Use:   "commit [path]",
		Short: "Commit the contents of path (or stdin) as a new version",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runCommit,
	}
	commit.Flags().StringVarP(&a.name, "name", "n", "", "version name (default derived from content)")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a version",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runShow,
	}

	logCmd := &cobra.Command{
		Use:   "log",
		Short: "List versions in commit order",
		Args:  cobra.NoArgs,
		RunE:  a.runLog,
	}
	logCmd.Flags().BoolVar(&a.jsonMode, "json", false, "output JSON")

	latest := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent version",
		Args:  cobra.NoArgs,
		RunE:  a.runLatest,
	}

	reset := &cobra.Command{
		Use:   "reset <name>",
		Short: "Drop every version after name",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runReset,
	}

	squash := &cobra.Command{
		Use:   "squash <name>",
		Short: "Drop every version before name, keeping name as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runSquash,
	}

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Report versions that can no longer be reconstructed",
		Args:  cobra.NoArgs,
		RunE:  a.runVerify,
	}
	verify.Flags().BoolVar(&a.jsonMode, "json", false, "output JSON")

	root.AddCommand(commit, show, logCmd, latest, reset, squash, verify)
	return root
}

// open loads the configuration and opens the storage file.
func (a *app) open() (*revlog.File, error) {
	cfg, err := loadConfig(a.config)
	if err != nil {
		return nil, err
	}
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	rc, err := cfg.store(logger)
	if err != nil {
		return nil, err
	}
	dir, name := filepath.Split(a.file)
	if dir == "" {
		dir = "."
	}
	return revlog.Open(dir, name, rc)
}

func (a *app) runCommit(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(a.in)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}

	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	name, err := f.Commit(string(data), a.name)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, name)
	return nil
}

func (a *app) runShow(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	text, err := f.Show(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, text)
	return nil
}

func (a *app) runLog(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := f.Log()
	if err != nil {
		return err
	}
	if a.jsonMode {
		if entries == nil {
			entries = []revlog.Entry{}
		}
		return json.NewEncoder(a.out).Encode(entries)
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-10s %s\n", e.Kind, e.Name)
	}
	return nil
}

func (a *app) runLatest(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	text, err := f.Latest()
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, text)
	return nil
}

func (a *app) runReset(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Reset(args[0])
}

func (a *app) runSquash(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Squash(args[0])
}

type problem struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	f, err := a.open()
	if err != nil {
		return err
	}
	defer f.Close()

	problems, err := f.Verify()
	if err != nil {
		return err
	}
	if a.jsonMode {
		out := make([]problem, len(problems))
		for i, p := range problems {
			out[i] = problem{p.Name, p.Err.Error()}
		}
		if err := json.NewEncoder(a.out).Encode(out); err != nil {
			return err
		}
	} else {
		for _, p := range problems {
			fmt.Fprintln(a.out, p.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d unresolvable version(s)", len(problems))
	}
	return nil
}
