package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsHTML = `<html><body>
<table>
<tr><td>Intro</td><td><span id="01-intro"></span></td><td><span id="01-intro-weeks"></span></td></tr>
</table>
<p>Total: <span id="total-hours" style="font-weight: bold">?</span></p>
<canvas id="category-doughnut-canvas"></canvas>
</body></html>`

func parse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(statsHTML)
	require.NoError(t, err)
	return doc
}

func TestSetTextOnIDStartingWithDigit(t *testing.T) {
	doc := parse(t)

	require.NoError(t, doc.SetText("01-intro", "12"))

	text, err := doc.Text("01-intro")
	require.NoError(t, err)
	assert.Equal(t, "12", text)
}

func TestSetTextEscapes(t *testing.T) {
	doc := parse(t)

	require.NoError(t, doc.SetText("total-hours", "<b>1</b>"))

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;1&lt;/b&gt;")
}

func TestMissingElement(t *testing.T) {
	doc := parse(t)

	err := doc.SetText("02-javascript", "3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrElementNotFound))

	var notFound *ElementNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "02-javascript", notFound.ID)
	assert.False(t, doc.Has("02-javascript"))
	assert.True(t, doc.Has("total-hours"))
}

func TestSetStyleKeepsOtherProperties(t *testing.T) {
	doc := parse(t)

	require.NoError(t, doc.SetStyle("total-hours", "color", "green"))
	require.NoError(t, doc.SetStyle("total-hours", "color", "red"))

	color, err := doc.Style("total-hours", "color")
	require.NoError(t, err)
	assert.Equal(t, "red", color)

	style, ok, err := doc.Attr("total-hours", "style")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "color: red; font-weight: bold;", style)
}

func TestInsertAfterAndAppend(t *testing.T) {
	doc := parse(t)

	require.NoError(t, doc.InsertAfter("category-doughnut-canvas", `<script type="application/json" id="cfg">{}</script>`))
	require.NoError(t, doc.AppendHTML("total-hours", `<em id="unit">h</em>`))

	assert.True(t, doc.Has("cfg"))
	assert.Equal(t, 1, doc.Find("canvas + script").Length())
	text, err := doc.Text("unit")
	require.NoError(t, err)
	assert.Equal(t, "h", text)
}
