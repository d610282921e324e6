// Package sitemap собирает sitemap.xml публичного сайта.
package sitemap

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"atelier/internal/domain/models"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Build перечисляет статические страницы, категории и опубликованные изделия.
func Build(baseURL string, now time.Time, categories []models.Category, creations []models.Creation) URLSet {
	base := strings.TrimRight(baseURL, "/")

	set := URLSet{Xmlns: xmlns}
	add := func(path string, mod time.Time, freq string, prio float64) {
		set.URLs = append(set.URLs, URL{
			Loc:        base + path,
			LastMod:    mod.UTC().Format(time.DateOnly),
			ChangeFreq: freq,
			Priority:   strconv.FormatFloat(prio, 'f', 1, 64),
		})
	}

	add("", now, "daily", 1.0)
	add("/about", now, "monthly", 0.8)
	add("/creations", now, "daily", 0.9)
	add("/contact", now, "monthly", 0.7)

	for _, c := range categories {
		add("/category/"+c.Slug, c.UpdatedAt, "weekly", 0.7)
	}

	for _, c := range creations {
		if c.Status != models.StatusPublished {
			continue
		}
		mod := c.UpdatedAt
		if c.PublishedAt != nil {
			mod = *c.PublishedAt
		}
		add("/creations/"+c.Slug, mod, "weekly", 0.8)
	}

	return set
}

func (s URLSet) WriteTo(w io.Writer) (int64, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return 0, err
	}

	n, err := io.WriteString(w, xml.Header+string(body)+"\n")
	return int64(n), err
}
