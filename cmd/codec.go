package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hile/soundforest/internal/codecs"
	"github.com/hile/soundforest/internal/shared"
	"github.com/urfave/cli/v3"
)

// CodecList lists the registered audio codecs.
func (r *Runner) CodecList(ctx context.Context, cmd *cli.Command) error {
	names := r.codecs.Names()

	if cmd.Bool("json") {
		entries := make([]map[string]any, 0, len(names))
		for _, name := range names {
			codec := r.codecs.Get(name)
			entries = append(entries, map[string]any{
				"name":        codec.Name,
				"description": codec.Description,
				"extensions":  codec.Extensions,
			})
		}
		return r.writeJSON(entries, true)
	}

	for _, name := range names {
		codec := r.codecs.Get(name)
		r.writePlain("%s\t%s\t%s\n", codec.Name, strings.Join(codec.Extensions, ","), codec.Description)
	}
	return nil
}

// CodecConvert transcodes an audio file between registered formats.
//
// The source is decoded to an intermediate wav file with the source codec's
// decoder, then encoded with the target codec's encoder. Sources that already
// are wav skip the decode step.
func (r *Runner) CodecConvert(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.StringArg("input")
	outputPath := cmd.StringArg("output")
	if inputPath == "" || outputPath == "" {
		return fmt.Errorf("%w: input and output paths", shared.ErrMissingArgument)
	}

	source := r.codecs.Match(inputPath)
	if source == nil {
		return fmt.Errorf("%w: unrecognized source format: %s", shared.ErrInvalidInput, inputPath)
	}
	target := r.codecs.Match(outputPath)
	if target == nil {
		return fmt.Errorf("%w: unrecognized target format: %s", shared.ErrInvalidInput, outputPath)
	}

	wavPath := inputPath
	if source.Name != "wav" {
		if len(source.Decoders) == 0 {
			return fmt.Errorf("%w: no decoder for %s", shared.ErrCodecCommand, source.Name)
		}
		decoder, err := codecs.NewCommand(source.Decoders[0])
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp("", "soundforest-*.wav")
		if err != nil {
			return fmt.Errorf("failed to create intermediate file: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())
		wavPath = tmp.Name()

		r.logger.Info("decoding", "codec", source.Name, "input", inputPath)
		if _, err := decoder.Run(ctx, inputPath, wavPath); err != nil {
			return err
		}
	}

	if target.Name == "wav" {
		data, err := os.ReadFile(wavPath)
		if err != nil {
			return fmt.Errorf("failed to read decoded audio: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		if len(target.Encoders) == 0 {
			return fmt.Errorf("%w: no encoder for %s", shared.ErrCodecCommand, target.Name)
		}
		encoder, err := codecs.NewCommand(target.Encoders[0])
		if err != nil {
			return err
		}

		r.logger.Info("encoding", "codec", target.Name, "output", outputPath)
		if _, err := encoder.Run(ctx, wavPath, outputPath); err != nil {
			return err
		}
	}

	r.writePlain("Converted %s (%s) to %s (%s)\n",
		filepath.Base(inputPath), source.Name, filepath.Base(outputPath), target.Name)
	return nil
}
