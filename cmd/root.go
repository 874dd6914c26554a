package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	u "net/url"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tanq16/galgrab/internal/output"
	"github.com/tanq16/galgrab/internal/scheduler"
	"github.com/tanq16/galgrab/internal/utils"
)

var (
	directory     string
	workers       int
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	imagePattern  string
	debug         bool
	fileLog       bool
)

var (
	globalHTTPConfig utils.HTTPClientConfig
	logCloser        io.Closer
)

var GalgrabVersion = "dev"

var rootCmd = &cobra.Command{
	Use:               "galgrab <gallery_url> [--directory DIR] [--num_threads N]",
	Short:             "Download every image of a photo gallery",
	Version:           GalgrabVersion,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: setup,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		job := utils.GalleryJob{
			ID:               uuid.NewString(),
			URL:              args[0],
			Directory:        directory,
			Workers:          workers,
			ImagePattern:     imagePattern,
			HTTPClientConfig: globalHTTPConfig,
		}
		return runGalleries(cmd.Context(), []utils.GalleryJob{job})
	},
}

var errFailedOperations = errors.New("encountered failed operation(s)")

func runGalleries(ctx context.Context, jobs []utils.GalleryJob) error {
	if err := scheduler.Run(ctx, jobs, os.Stdout); err != nil {
		fmt.Println()
		output.PrintError("Encountered failed operation(s)")
		return errFailedOperations
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and closes the log file whatever the outcome.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil && !errors.Is(err, errFailedOperations) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func setup(cmd *cobra.Command, args []string) error {
	if err := applyEnvDefaults(cmd); err != nil {
		return err
	}
	logFile := ""
	if fileLog {
		logFile = utils.LogFile
	}
	closer, err := utils.InitLogger(debug, logFile)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	logCloser = closer

	if workers <= 0 {
		return fmt.Errorf("num_threads must be a positive integer, got %d", workers)
	}
	if userAgent == "randomize" {
		userAgent = utils.GetRandomUserAgent()
	}
	proxyURL, proxyUsername, proxyPassword = splitProxyCredentials(proxyURL, proxyUsername, proxyPassword)
	globalHTTPConfig = utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     userAgent,
		Headers:       utils.ParseHeaderArgs(headers),
	}
	return nil
}

// splitProxyCredentials moves credentials embedded in the proxy URL into the username and
// password, unless a username was given explicitly.
func splitProxyCredentials(proxy, username, password string) (string, string, string) {
	parsed, err := u.Parse(proxy)
	if err != nil || parsed.User == nil || username != "" {
		return proxy, username, password
	}
	username = parsed.User.Username()
	if p, set := parsed.User.Password(); set {
		password = p
	}
	parsed.User = nil
	return parsed.String(), username, password
}

// applyEnvDefaults fills flags the user did not set from the environment or a .env file.
func applyEnvDefaults(cmd *cobra.Command) error {
	_ = godotenv.Load()
	flags := cmd.Flags()
	if v := os.Getenv("GALGRAB_USER_AGENT"); v != "" && !flags.Changed("user-agent") {
		userAgent = v
	}
	if v := os.Getenv("GALGRAB_PROXY"); v != "" && !flags.Changed("proxy") {
		proxyURL = v
	}
	if v := os.Getenv("GALGRAB_NUM_THREADS"); v != "" && !flags.Changed("num_threads") {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GALGRAB_NUM_THREADS %q: %w", v, err)
		}
		workers = n
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&directory, "directory", "d", "", "Directory to store images (derived from the gallery name if not provided)")

	rootCmd.PersistentFlags().IntVarP(&workers, "num_threads", "n", utils.DefaultWorkers, "Number of images to download in parallel")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Request timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent ('randomize' picks a browser user agent)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Cookie: a=b'); can be specified multiple times")
	rootCmd.PersistentFlags().StringVar(&imagePattern, "image-pattern", "", "Regular expression for full-size image links on a photo page")

	// flags without shorthand
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&fileLog, "log", false, "Write debug logs to "+utils.LogFile)

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newLinksCmd())
}
