package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcap/internal/media/audio"
	"reelcap/internal/media/ffprobe"
	"reelcap/internal/render"
	"reelcap/internal/services"
)

func newBurnCommand(ctx *commandContext) *cobra.Command {
	var (
		outputFlag      string
		verticalFlag    bool
		audioFlag       string
		maxAudioSeconds float64
	)

	cmd := &cobra.Command{
		Use:   "burn <video-file> <caption-file>",
		Short: "Burn a caption file into a video",
		Long: `Burn renders captions onto video with ffmpeg's subtitles filter, styled
from the [render] configuration section. With --audio, the video is used as a
background track and muxed with the given audio, trimmed to its duration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			video, captions := args[0], args[1]
			output := strings.TrimSpace(outputFlag)
			if output == "" {
				base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
				output = filepath.Join(cfg.Paths.OutputDir, base+"-captioned.mp4")
			}

			vertical := cfg.Render.Vertical
			if cmd.Flags().Changed("vertical") {
				vertical = verticalFlag
			}

			opts := render.Options{
				Style: render.Style{
					FontName:  cfg.Render.FontName,
					FontSize:  cfg.Render.FontSize,
					MarginV:   cfg.Render.MarginV,
					Outline:   cfg.Render.Outline,
					Alignment: cfg.Render.Alignment,
				},
				Vertical: vertical,
			}

			probed, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), video)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "burn", "probe", "Video inspection failed", err)
			}
			stream, ok := probed.FirstVideoStream()
			if !ok {
				return services.Wrap(services.ErrValidation, "burn", "probe", fmt.Sprintf("%q has no video stream", video), nil)
			}
			opts.Width = stream.Width
			opts.Height = stream.Height

			renderer := render.NewRenderer(cfg.FFmpegBinary())

			if audioPath := strings.TrimSpace(audioFlag); audioPath != "" {
				audioProbe, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), audioPath)
				if err != nil {
					return services.Wrap(services.ErrExternalTool, "burn", "probe", "Audio inspection failed", err)
				}
				seconds := audioProbe.DurationSeconds()

				if maxAudioSeconds > 0 && seconds > maxAudioSeconds {
					converter := audio.NewConverter(cfg.FFmpegBinary())
					sped := filepath.Join(cfg.Paths.WorkDir, "sped-"+filepath.Base(audioPath))
					factor, err := converter.SpeedUp(cmd.Context(), audioPath, sped,
						time.Duration(seconds*float64(time.Second)),
						time.Duration(maxAudioSeconds*float64(time.Second)))
					if err != nil {
						return err
					}
					defer os.Remove(sped)
					audioPath = sped
					seconds = seconds / factor
					fmt.Fprintf(cmd.OutOrStdout(), "Sped audio up %.2fx to fit %.1fs\n", factor, maxAudioSeconds)
				}

				if err := renderer.CaptionsOverAudio(cmd.Context(), video, audioPath, captions, output, seconds, opts); err != nil {
					return err
				}
			} else if err := renderer.BurnIn(cmd.Context(), video, captions, output, opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Rendered video output path")
	cmd.Flags().BoolVar(&verticalFlag, "vertical", false, "Reframe output to 9:16")
	cmd.Flags().StringVar(&audioFlag, "audio", "", "Mux this audio track over the video, trimmed to its duration")
	cmd.Flags().Float64Var(&maxAudioSeconds, "max-audio-seconds", 0, "Speed the audio up to fit under this many seconds before muxing")

	return cmd
}
