package redis

import (
	"strings"
	"testing"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRenderKey(t *testing.T) {
	filters := entity.NeutralFilters()
	overlay := entity.DefaultOverlay()
	target := entity.DefaultTargetSize()

	base := RenderKey("font", "digest", filters, overlay, target)
	assert.True(t, strings.HasPrefix(base, renderKeyPrefix))
	assert.Equal(t, base, RenderKey("font", "digest", filters, overlay, target), "key is stable")

	brighter := filters
	brighter.Brightness = 101
	captioned := overlay
	captioned.TopText = "TOP"

	variants := map[string]string{
		"font":    RenderKey("other font", "digest", filters, overlay, target),
		"source":  RenderKey("font", "other", filters, overlay, target),
		"filters": RenderKey("font", "digest", brighter, overlay, target),
		"overlay": RenderKey("font", "digest", filters, captioned, target),
		"target":  RenderKey("font", "digest", filters, overlay, entity.Size{W: 400, H: 500}),
	}
	for name, key := range variants {
		assert.NotEqual(t, base, key, "changing %s must change the key", name)
	}
}
