package acquire

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"medocr/internal/intake"
	"medocr/internal/logger"
)

// NativeDialog produces path references and an output folder. It never opens
// the selected files.
type NativeDialog struct {
	host      Host
	selection intake.Selection
	output    intake.OutputLocation
	log       zerolog.Logger
}

func NewNativeDialog(host Host) *NativeDialog {
	return &NativeDialog{
		host: host,
		log:  logger.WithComponent("native-dialog"),
	}
}

func (d *NativeDialog) Kind() intake.Kind { return intake.KindPath }

func (d *NativeDialog) SelectFiles(ctx context.Context) (intake.Selection, error) {
	paths, err := d.host.OpenFiles(ctx)
	if err != nil {
		return d.selection, fmt.Errorf("open file dialog: %w", err)
	}
	if len(paths) == 0 {
		d.log.Debug().Int("kept", len(d.selection)).Msg("File dialog cancelled, keeping previous selection")
		return d.selection, nil
	}

	sel := make(intake.Selection, 0, len(paths))
	for _, path := range paths {
		warnUnsupported(d.log, path)
		sel = append(sel, intake.PathReference{Path: path})
	}
	d.selection = sel
	d.log.Info().Strs("files", paths).Msg("Files selected")
	return d.selection, nil
}

func (d *NativeDialog) SelectOutputLocation(ctx context.Context) (intake.OutputLocation, error) {
	folder, err := d.host.OpenFolder(ctx)
	if err != nil {
		return d.output, fmt.Errorf("open folder dialog: %w", err)
	}
	if folder == "" {
		d.log.Debug().Str("kept", d.output.String()).Msg("Folder dialog cancelled, keeping previous folder")
		return d.output, nil
	}
	d.output = intake.OutputLocation(folder)
	d.log.Info().Str("folder", folder).Msg("Output folder selected")
	return d.output, nil
}

func (d *NativeDialog) Selection() intake.Selection { return d.selection }

func (d *NativeDialog) OutputLocation() intake.OutputLocation { return d.output }
