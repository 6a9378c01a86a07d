// Command cddb looks up album metadata for a disc fingerprint against a
// gnudb/FreeDB-style server.
//
// The fingerprint is passed as computed by an external disc-id tool:
//
//	cddb lookup aa0b5d0c 150 16200 32984 2828
//	cddb query --server gnudb.gnudb.org:8880 aa0b5d0c 150 16200 32984 2828
//	cddb read rock aa0b5d0c
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hexdisc/cddb"
)

var (
	flagServer  string
	flagHTTP    string
	flagTimeout time.Duration
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "cddb",
	Short:        "cddb resolves disc fingerprints into album metadata",
	SilenceUsage: true,
}

var queryCmd = &cobra.Command{
	Use:   "query <discid> <offset>... <seconds>",
	Short: "List candidate matches for a fingerprint",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fp, err := parseFingerprint(args)
		if err != nil {
			return err
		}

		return withSession(func(ctx context.Context, sess *cddb.Session) error {
			matches, err := sess.Query(ctx, fp)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no match")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s %s %s\n", m.Category, m.DiscID, m)
			}
			return nil
		})
	},
}

var readCmd = &cobra.Command{
	Use:   "read <category> <discid>",
	Short: "Fetch the full record for a known category and disc ID",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, sess *cddb.Session) error {
			disc, err := sess.Read(ctx, cddb.Match{Category: args[0], DiscID: args[1]})
			if err != nil {
				return err
			}
			printDisc(disc)
			return nil
		})
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <discid> <offset>... <seconds>",
	Short: "Query and read in one go, taking the first match",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fp, err := parseFingerprint(args)
		if err != nil {
			return err
		}

		return withSession(func(ctx context.Context, sess *cddb.Session) error {
			matches, err := sess.Query(ctx, fp)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no match")
				return nil
			}
			disc, err := sess.Read(ctx, matches[0])
			if err != nil {
				return err
			}
			printDisc(disc)
			return nil
		})
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "gnudb.gnudb.org:8880", "CDDBP server address (stream binding)")
	rootCmd.PersistentFlags().StringVar(&flagHTTP, "http", "", "server base URL for the HTTP binding, e.g. http://gnudb.gnudb.org")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 15*time.Second, "overall timeout per command")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "trace wire traffic to stderr")

	rootCmd.AddCommand(queryCmd, readCmd, lookupCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withSession(fn func(ctx context.Context, sess *cddb.Session) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	logger := zerolog.Nop()
	if flagVerbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	var (
		sess *cddb.Session
		err  error
	)
	if flagHTTP != "" {
		sess, err = cddb.NewHTTPSession(flagHTTP, cddb.HTTPOptions{Logger: logger})
	} else {
		sess, err = cddb.Dial(ctx, flagServer, cddb.StreamOptions{Logger: logger})
	}
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Login(ctx); err != nil {
		return err
	}
	return fn(ctx, sess)
}

func parseFingerprint(args []string) (cddb.Fingerprint, error) {
	fp := cddb.Fingerprint{DiscID: args[0]}

	nums := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return cddb.Fingerprint{}, fmt.Errorf("invalid offset or length %q", arg)
		}
		nums = append(nums, n)
	}

	fp.Offsets = nums[:len(nums)-1]
	fp.Seconds = nums[len(nums)-1]
	return fp, nil
}

func printDisc(disc *cddb.Disc) {
	fmt.Printf("%s / %s\n", disc.Artist, disc.Title)
	if disc.Year != 0 {
		fmt.Printf("year:  %d\n", disc.Year)
	}
	if disc.Genre != "" {
		fmt.Printf("genre: %s\n", disc.Genre)
	}
	for _, tr := range disc.Tracks {
		fmt.Printf("%3d. %s\n", tr.Number, tr.Title)
	}
}
