package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/RyanBlaney/sonido-voz/logging"
	"github.com/RyanBlaney/sonido-voz/transcode"
	"github.com/RyanBlaney/sonido-voz/voicemap"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Analyze a voice recording and match it to a catalog voice",
		Long: `Analyze a WAV voice recording, select the closest catalog voice and print
the resulting voice bundle. Words such as "female" or "man" in --name (or
the file name) override the pitch-based gender estimate.

With --manifest the bundle is added to the manifest file, replacing any
voice with the same id. With --reference-clip a loudness-normalized excerpt
of the recording is written for cloning engines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runAnalyze(ctx, cmd, args[0])
		},
	}

	cmd.Flags().String("name", "", "voice name (default is the file name)")
	cmd.Flags().String("manifest", "", "manifest file to add the bundle to (.json, .yaml)")
	cmd.Flags().String("reference-clip", "", "write a normalized reference clip to this WAV path")
	cmd.Flags().Int("target-rate", 0, "resample to this rate before analysis (0 keeps the input rate)")
	cmd.Flags().Duration("max-duration", 0, "analyze at most this much audio (0 for all)")
	return cmd
}

func (a *app) runAnalyze(ctx context.Context, cmd *cobra.Command, path string) error {
	cfg, err := a.analysisConfig()
	if err != nil {
		return err
	}
	catalog, err := a.catalog()
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}

	logger := a.logger.WithFields(logging.Fields{
		"command": "analyze",
		"file":    path,
	})

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoderConfig := transcode.DefaultDecoderConfig()
	decoderConfig.MaxDuration = a.v.GetDuration("max-duration")
	audio, err := transcode.NewDecoder(decoderConfig, a.logger).DecodeFile(path)
	if err != nil {
		return err
	}
	logger.Info("Decoded audio", logging.Fields{
		"sample_rate": audio.SampleRate,
		"channels":    audio.Channels,
		"duration":    audio.Duration.Round(time.Millisecond).String(),
	})

	analyzer, err := voicemap.NewAnalyzer(cfg, a.logger)
	if err != nil {
		return err
	}
	record, err := analyzer.Analyze(ctx, voicemap.AudioClip{
		Samples:    audio.Float32(),
		SampleRate: audio.SampleRate,
	})
	if err != nil {
		return err
	}

	name := a.v.GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if voicemap.ApplyHint(record, name) {
		logger.Debug("Gender taken from name", logging.Fields{"name": name, "gender": record.Gender})
	}

	mapper, err := voicemap.NewMapper(catalog, a.logger)
	if err != nil {
		return err
	}
	bundle := voicemap.NewBundle(name, record, mapper.Map(record))
	bundle.SourceFile = filepath.Base(path)
	bundle.Checksum = voicemap.Checksum(raw)

	if clipPath := a.v.GetString("reference-clip"); clipPath != "" {
		segments := analyzer.SpeechSegments(audio.PCM)
		if err := transcode.WriteReferenceClip(clipPath, audio.PCM, audio.SampleRate, segments); err != nil {
			return err
		}
		logger.Debug("Reference clip written", logging.Fields{"path": clipPath, "speech_segments": len(segments)})
		bundle.ReferenceClip = clipPath
	}

	if manifestPath := a.v.GetString("manifest"); manifestPath != "" {
		if err := addToManifest(manifestPath, bundle); err != nil {
			return err
		}
		logger.Info("Manifest updated", logging.Fields{"manifest": manifestPath, "voice_id": bundle.ID})
	}

	logger.Info("Voice mapped", logging.Fields{
		"voice_id":   bundle.Voice,
		"confidence": bundle.Mapping.Confidence,
		"pitch":      bundle.RecommendedSettings.Pitch,
		"speed":      bundle.RecommendedSettings.Speed,
	})
	return voicemap.Encode(cmd.OutOrStdout(), bundle, format)
}

func manifestFormat(path string) voicemap.Format {
	format, err := voicemap.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return voicemap.FormatJSON
	}
	return format
}

// readManifest loads the manifest at path; a missing file is an empty manifest
func readManifest(path string) (*voicemap.Manifest, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return voicemap.NewManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return voicemap.ReadManifest(f, manifestFormat(path))
}

func addToManifest(path string, bundle *voicemap.Bundle) error {
	m, err := readManifest(path)
	if err != nil {
		return err
	}
	m.Add(bundle)
	m.GeneratedAt = time.Now().UTC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := m.Write(f, manifestFormat(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
