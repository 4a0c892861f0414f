/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/quip-mirror/auth"
	"github.com/toothbrush/quip-mirror/localmirror"
	"github.com/toothbrush/quip-mirror/quip"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

var mirrorUsage = strings.TrimSpace(`
Mirror a Quip folder (and everything beneath it) to a local directory tree of .docx files.

The folder can be given as a bare ID or as a quip.com URL.
`)

// mirrorCmd represents the mirror command
var mirrorCmd = &cobra.Command{
	Use:   "mirror <folder-url-or-id>",
	Short: "Download a Quip folder tree as .docx files",
	Long:  mirrorUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLog("  Overwrite: %v\n", Overwrite)
		debugLog("  DryRun: %v\n", DryRun)
		return runMirror(cmd, args[0])
	},
}

var (
	Overwrite bool
	WithVCR   bool
	DryRun    bool
	MaxDepth  int
	Workers   int
)

func init() {
	rootCmd.AddCommand(mirrorCmd)

	// Cobra also supports local flags, which will only run
	// when this action is called directly.
	mirrorCmd.Flags().BoolVar(&Overwrite, "overwrite", true, "overwrite existing files (a .backup copy is kept)")
	mirrorCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	mirrorCmd.Flags().BoolVar(&DryRun, "dry-run", false, "walk the folder tree but don't write anything")
	mirrorCmd.Flags().IntVar(&MaxDepth, "max-depth", localmirror.DefaultMaxDepth, "give up if the folder tree is nested deeper than this")
	mirrorCmd.Flags().IntVar(&Workers, "workers", 1, "number of concurrent document exports")
}

func runMirror(cmd *cobra.Command, folderArg string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	folderID, err := quip.ExtractFolderID(folderArg)
	if err != nil {
		return fmt.Errorf("mirror: couldn't understand folder argument: %w", err)
	}

	if LocalStore == "" {
		return fmt.Errorf("mirror: no location set for local store of Quip documents.  Use --store or set it in your config file")
	}

	storePath, err := homedir.Expand(LocalStore)
	if err != nil {
		return fmt.Errorf("mirror: couldn't expand homedir: %w", err)
	}

	if err := os.MkdirAll(storePath, 0750); err != nil {
		return fmt.Errorf("mirror: couldn't create directory %s: %w", storePath, err)
	}

	api, err := newQuipAPI()
	if err != nil {
		return err
	}

	// get current user information, which doubles as a token check
	currentUser, err := api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("mirror: couldn't query current user: %w", err)
	}

	fmt.Printf("Logged in to quip.com as '%s (%s)'...\n", currentUser.Name, currentUser.ID)

	mirrorer := localmirror.Mirrorer{
		StorePath: storePath,
		Client:    api,
		MaxDepth:  MaxDepth,
		Overwrite: Overwrite,
		Workers:   Workers,
		DryRun:    DryRun,
		Logger:    log.Default(),
	}

	summary, err := mirrorer.Run(ctx, folderID)
	if err != nil {
		return fmt.Errorf("mirror: mirror run failed: %w", err)
	}

	printSummary(summary)

	if summary.Cancelled {
		return fmt.Errorf("mirror: run cancelled before completion")
	}

	return nil
}

// newQuipAPI builds an authenticated API client, optionally wrapped in a
// go-vcr recorder.
func newQuipAPI() (*quip.API, error) {
	discovery := auth.Discovery{
		CLIToken: AuthToken,
		TokenCmd: AuthTokenCmd,
	}

	token, source, err := discovery.Discover()
	if err != nil {
		return nil, err
	}
	debugLog("using token from %s\n", source)

	baseURL := QuipURL
	if baseURL == "" {
		baseURL = quip.DefaultBaseURL
	}

	api, err := quip.NewAPI(baseURL, token)
	if err != nil {
		return nil, fmt.Errorf("mirror: Quip API creation failed: %w", err)
	}

	if WithVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/quip-stuff",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return nil, fmt.Errorf("mirror: couldn't set up go-vcr recording: %w", err)
		}

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		api.Client = r.GetDefaultClient()
	}

	return api, nil
}

func printSummary(summary *localmirror.RunSummary) {
	okColour := color.New(color.FgGreen)
	badColour := color.New(color.FgRed)
	warnColour := color.New(color.FgYellow)

	fmt.Println()
	fmt.Println(summary.String())

	if summary.Failed == 0 && !summary.Cancelled {
		okColour.Printf("All done: %d of %d documents exported (%.1f%%).\n",
			summary.Exported, summary.DocumentsFound, summary.SuccessRate())
	} else {
		badColour.Printf("%d of %d documents exported (%.1f%%), %d failed.\n",
			summary.Exported, summary.DocumentsFound, summary.SuccessRate(), summary.Failed)
	}

	const maxShown = 10
	for i, e := range summary.Errors {
		if i == maxShown {
			badColour.Printf("  ... and %d more errors\n", len(summary.Errors)-maxShown)
			break
		}
		badColour.Printf("  error: %s\n", e)
	}

	for _, w := range summary.Warnings {
		warnColour.Printf("  warning: %s\n", w)
	}
}
