// renders one meme from the command line
package main

import (
	"bytes"
	"errors"
	"os"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/compositor"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/exporter"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("memegen", pflag.ExitOnError)
	flags.String("input", "", "source image (png, jpeg, gif, webp)")
	flags.String("top", "", "top caption")
	flags.String("bottom", "", "bottom caption")
	flags.Int("font-size", entity.DefaultFontSize, "caption size in pixels")
	flags.String("color", entity.DefaultFontColor, "caption fill color")
	flags.String("font", "", "path to a TTF/OTF font")
	flags.Float64("brightness", 100, "brightness percent (0-200)")
	flags.Float64("contrast", 100, "contrast percent (0-200)")
	flags.Float64("grayscale", 0, "grayscale percent (0-100)")
	flags.Float64("blur", 0, "blur radius in pixels (0-10)")
	flags.Bool("apply", false, "fold filters into the source before captioning")
	flags.Int("max-width", entity.DefaultMaxWidth, "output width cap")
	flags.Int("max-height", entity.DefaultMaxHeight, "output height cap")
	flags.Int("max-pixels", entity.DefaultMaxSourcePixels, "largest source canvas accepted, in pixels")
	flags.String("out-dir", ".", "output directory")
	flags.String("name", "", "output file name without extension")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("MEMEGEN")
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		logrus.Fatalf("Cannot bind flags: %v", err)
	}

	if err := run(v); err != nil {
		logrus.Fatal(err)
	}
}

func run(v *viper.Viper) error {
	input := v.GetString("input")
	if input == "" {
		return errors.New("--input is required")
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	var fontData []byte
	if path := v.GetString("font"); path != "" {
		if fontData, err = os.ReadFile(path); err != nil {
			return err
		}
	}
	comp, err := compositor.New(fontData)
	if err != nil {
		return err
	}

	src, err := compositor.LoadSourceLimit(data, v.GetInt("max-pixels"))
	if err != nil {
		return err
	}

	target := entity.Size{W: v.GetInt("max-width"), H: v.GetInt("max-height")}
	filters := entity.FilterSettings{
		Brightness: v.GetFloat64("brightness"),
		Contrast:   v.GetFloat64("contrast"),
		Grayscale:  v.GetFloat64("grayscale"),
		Blur:       v.GetFloat64("blur"),
	}.Clamp()
	overlay := entity.TextOverlay{
		TopText:    v.GetString("top"),
		BottomText: v.GetString("bottom"),
		FontSize:   v.GetInt("font-size"),
		FontColor:  v.GetString("color"),
	}.Normalize()

	if v.GetBool("apply") {
		if src, err = comp.ApplyPermanently(src, filters, target); err != nil {
			return err
		}
		filters = entity.NeutralFilters()
	}

	img, err := comp.Render(src, filters, overlay, target)
	if err != nil {
		return err
	}
	png, err := exporter.EncodePNG(img)
	if err != nil {
		return err
	}

	name := exporter.Filename(v.GetString("name"), time.Now())
	store := storage.NewFileStorage(v.GetString("out-dir"))
	if err := store.Save(name, bytes.NewReader(png)); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":   store.FullPath(name),
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"bytes":  len(png),
	}).Info("Meme written")
	return nil
}
