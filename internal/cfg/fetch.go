package cfg

import (
	"fmt"
	"os"

	"movvify/internal/client"
	"movvify/internal/domain/keys"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
	"movvify/internal/validation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a video or a whole playlist through a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			quality := models.ParseQuality(viper.GetString(keys.Quality))

			dir := viper.GetString(keys.OutputDir)
			if _, err := validation.ValidateDirectory(dir, true); err != nil {
				return err
			}
			c := client.NewClient(viper.GetString(keys.ServerURL), dir)

			if _, err := validation.ValidatePlaylistURL(args[0]); err == nil {
				info, err := c.PlaylistInfo(ctx, args[0])
				if err != nil {
					return err
				}
				logging.I("Playlist %q: %d videos", info.Title, len(info.Items))

				d := &client.Driver{Fetcher: c}
				_, err = d.Run(ctx, info.Items, quality)
				return err
			}

			if _, err := validation.ValidateVideoURL(args[0]); err != nil {
				return err
			}
			c.OnProgress = func(p float64) {
				fmt.Fprintf(os.Stderr, "\rDownloading... %5.1f%%", p)
			}
			path, err := c.DownloadSingle(ctx, args[0], quality)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}
			logging.S("Download complete: %q", path)
			return nil
		},
	}

	initFetchFlags(cmd)
	return cmd
}
