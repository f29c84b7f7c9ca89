package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"image-gallery/internal/deletion"
	"image-gallery/internal/gallery"
	"image-gallery/internal/logging"
	"image-gallery/internal/mediatypes"
	"image-gallery/internal/memory"
	"image-gallery/internal/metrics"
	"image-gallery/internal/startup"
	"image-gallery/internal/thumbnail"

	"github.com/spf13/cobra"
)

func (*cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := startup.GetBuildInfo()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gallery version %s (commit: %s, built: %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}
}

func (c *cli) newDirsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirs [base]",
		Short: "List gallery folders under base",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, d := range gallery.ListSubdirectories(c.dirArg(args)) {
				_, _ = fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	var sortName string

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List images in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.sortedImages(c.dirArg(args), sortName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", e.Path, e.ModTime.Format(time.RFC3339), mediatypes.GetMimeType(e.Path))
			}
			return nil
		},
	}

	addSortFlag(cmd, &sortName)
	return cmd
}

func (c *cli) newThumbsCmd() *cobra.Command {
	var (
		sortName string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "thumbs [dir]",
		Short: "Create or refresh thumbnails and print the path to show for each image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.dirArg(args)
			entries, err := c.sortedImages(dir, sortName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = c.cfg.Workers
			}

			renderer := thumbnail.NewRenderer(c.cfg.ThumbnailSize, c.cfg.ThumbnailQuality)
			renderer.UseVips = c.cfg.UseVips
			cache := thumbnail.NewCache(renderer)

			mon := memory.NewMonitor(memory.DefaultConfig())
			mon.Start()
			defer mon.Stop()
			cache.SetThrottle(mon)

			cacheDir := thumbnail.CacheDirFor(dir)
			results := cache.Warm(cmd.Context(), gallery.Paths(entries), cacheDir, workers)
			c.recordStats(dir, cacheDir, len(entries))

			out := cmd.OutOrStdout()
			fallbacks := 0
			for _, r := range results {
				if !r.Thumbnail {
					fallbacks++
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\n", r.Original, r.Display)
			}
			if fallbacks > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d images shown without a thumbnail\n", fallbacks, len(results))
			}
			return cmd.Context().Err()
		},
	}

	addSortFlag(cmd, &sortName)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Thumbnail workers (0 sizes from available CPUs)")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <path>...",
		Short: "Delete images",
		Long: fmt.Sprintf(`Delete images from disk. At most %d paths are processed per run.
Each file is removed independently: failures are reported and do not stop the
rest. Cached thumbnails are left in place.`, deletion.MaxBatch),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stderr := cmd.ErrOrStderr()

			targets, truncated := deletion.Truncate(args)
			if truncated {
				_, _ = fmt.Fprintf(stderr, "Only the first %d of %d paths will be deleted\n", len(targets), len(args))
			}

			if !yes {
				ok, err := c.confirm(cmd, targets)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(stderr, "Aborted")
					return nil
				}
			}

			res := deletion.DeleteAll(targets)

			out := cmd.OutOrStdout()
			for _, p := range res.Successes {
				_, _ = fmt.Fprintf(out, "deleted\t%s\n", p)
			}
			for _, f := range res.Failures {
				_, _ = fmt.Fprintf(stderr, "failed\t%s\t%s\n", f.Path, f.Err)
			}

			if !res.OK() {
				return fmt.Errorf("%d of %d deletions failed", len(res.Failures), len(targets))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

// confirm lists targets and asks for a y/N answer. It refuses outright when
// stdin is not a terminal.
func (c *cli) confirm(cmd *cobra.Command, targets []string) (bool, error) {
	if !c.isTerminal() {
		return false, errors.New("refusing to delete without confirmation: stdin is not a terminal (use --yes)")
	}

	out := cmd.OutOrStdout()
	for _, p := range targets {
		_, _ = fmt.Fprintf(out, "  %s\n", p)
	}
	_, _ = fmt.Fprintf(out, "Delete %d file(s)? This cannot be undone. [y/N] ", len(targets))

	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *cli) dirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.cfg.BaseDir
}

func (c *cli) sortedImages(dir, sortName string) ([]gallery.ImageEntry, error) {
	order, err := mediatypes.ParseSortOrder(sortName)
	if err != nil {
		return nil, err
	}
	entries := gallery.ListImages(dir)
	gallery.SortImages(entries, order)
	return entries, nil
}

func addSortFlag(cmd *cobra.Command, target *string) {
	names := make([]string, len(mediatypes.SortOrders))
	for i, o := range mediatypes.SortOrders {
		names[i] = string(o)
	}
	cmd.Flags().StringVarP(target, "sort", "s", string(mediatypes.SortNameAsc),
		"Sort order: "+strings.Join(names, ", "))
}

func (*cli) recordStats(dir, cacheDir string, images int) {
	files, bytes, err := thumbnail.Usage(cacheDir)
	if err != nil {
		logging.Warn("Failed to measure thumbnail cache %s: %v", cacheDir, err)
	}
	metrics.RecordGalleryStats(metrics.GalleryStats{
		Images:         images,
		Subdirectories: gallery.CountSubdirectories(dir),
		Thumbnails:     files,
		ThumbnailBytes: bytes,
	})
}
