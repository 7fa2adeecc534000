package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacedash/pkg/pipeline"
)

func sampleCards() []pipeline.Card {
	return []pipeline.Card{
		{
			Name:    "Falcon 9 Block 5",
			Heading: "Launcher Name: Falcon 9 Block 5",
			Image:   "https://cdn.test/f9.jpg",
			Width:   300,
			Height:  300,
			Fields: []pipeline.Field{
				{Key: "serial_number", Label: "Serial Number", Value: "B1049"},
				{Key: "status", Label: "Status", Value: "Active"},
			},
		},
		{
			Name:    "Electron <script>",
			Heading: "Launcher Name: Electron <script>",
			Width:   300,
			Height:  300,
			Fields: []pipeline.Field{
				{Key: "status", Label: "Status", Value: "Unknown"},
			},
		},
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Title: "Launchers", Cards: sampleCards()}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Launchers", doc.Find("title").Text())
	cards := doc.Find("div.card")
	require.Equal(t, 2, cards.Length())

	img := cards.First().Find("img")
	src, _ := img.Attr("src")
	width, _ := img.Attr("width")
	height, _ := img.Attr("height")
	assert.Equal(t, "https://cdn.test/f9.jpg", src)
	assert.Equal(t, "300", width)
	assert.Equal(t, "300", height)
	assert.Equal(t, "Launcher Name: Falcon 9 Block 5", cards.First().Find("h3").Text())
	assert.Equal(t, "Serial Number: B1049", cards.First().Find(`p[data-field="serial_number"]`).Text())

	second := cards.Eq(1)
	assert.Zero(t, second.Find("img").Length())
	assert.Equal(t, "No image available for Electron <script>", second.Find("p.no-image").Text())
	assert.Zero(t, doc.Find("body script").Length())
}

func TestHTMLNotice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Title: "Launch Data", Notice: "No launches found for that year."}))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "No launches found for that year.", doc.Find("p.notice").Text())
	assert.Zero(t, doc.Find("div.card").Length())
}

func TestText(t *testing.T) {
	cards := sampleCards()

	out := Text(cards[0], 60)
	assert.Contains(t, out, "Launcher Name: Falcon 9 Block 5")
	assert.Contains(t, out, "https://cdn.test/f9.jpg")
	assert.Contains(t, out, "B1049")

	out = Text(cards[1], 0)
	assert.Contains(t, out, NoImageText("Electron <script>"))

	all := TextAll(cards, 60, "")
	assert.Equal(t, 2, strings.Count(all, "Launcher Name:"))
}

func TestTextAllEmpty(t *testing.T) {
	assert.Contains(t, TextAll(nil, 60, "Failed to fetch launchers."), "Failed to fetch launchers.")
	assert.Contains(t, TextAll(nil, 60, ""), "No data available.")
}
