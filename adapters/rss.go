package adapters

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jackfish212/gopherengine/store"
	"github.com/jackfish212/gopherengine/types"
)

// RSS projects an RSS 2.0 or Atom feed into the Gopher hierarchy. Each
// entry becomes a text document under /entry/N, and entry categories
// become sub-menus under /category/<slug> that group related entries.
// Background polling is deliberately not implemented; a feed is only
// as fresh as its last Sync.
type RSS struct {
	namespace string
	url       string
	client    *http.Client
}

// NewRSS creates an RSS/Atom adapter for url, registered under namespace.
func NewRSS(namespace, url string) *RSS {
	return &RSS{
		namespace: namespace,
		url:       url,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *RSS) Namespace() string { return r.namespace }

func (r *RSS) Sync(ctx context.Context, s *store.Store) error {
	title, entries, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	s.RegisterNamespace(r.namespace, false)

	replacement := make(map[string]types.ContentNode)

	type category struct {
		label   string
		entries []int
	}
	categories := make(map[string]*category)
	var slugs []string

	for i, e := range entries {
		replacement[fmt.Sprintf("/entry/%d", i)] = types.DocumentNode(e.document(), "text/plain")

		for _, cat := range e.categories {
			slug := slugify(cat)
			c, ok := categories[slug]
			if !ok {
				c = &category{label: cat}
				categories[slug] = c
				slugs = append(slugs, slug)
			}
			c.entries = append(c.entries, i)
		}
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		c := categories[slug]
		items := []types.MenuItem{
			{Type: types.Info, Display: "Category: " + c.label},
			{Type: types.Info, Display: "---"},
		}
		for _, idx := range c.entries {
			items = append(items, types.MenuItem{
				Type:     types.TextFile,
				Display:  entries[idx].title,
				Selector: fmt.Sprintf("/entry/%d", idx),
				Host:     r.namespace,
			})
		}
		replacement[fmt.Sprintf("/category/%s", slug)] = types.MenuNode(items)
	}

	rootTitle := title
	if rootTitle == "" {
		rootTitle = r.url
	}
	root := []types.MenuItem{
		{Type: types.Info, Display: rootTitle},
		{Type: types.Info, Display: "---"},
	}
	for i, e := range entries {
		root = append(root, types.MenuItem{
			Type:     types.TextFile,
			Display:  e.title,
			Selector: fmt.Sprintf("/entry/%d", i),
			Host:     r.namespace,
		})
	}
	for _, slug := range slugs {
		root = append(root, types.MenuItem{
			Type:     types.Menu,
			Display:  categories[slug].label,
			Selector: fmt.Sprintf("/category/%s", slug),
			Host:     r.namespace,
		})
	}
	replacement[""] = types.MenuNode(root)

	return s.ReplaceNamespace(r.namespace, replacement)
}

// Search always reports false, delegating to the router's generic
// filter over the display text of the searched menu's items.
func (r *RSS) Search(ctx context.Context, selector, query string) ([]types.MenuItem, bool) {
	return nil, false
}

type feedEntry struct {
	title      string
	published  time.Time
	body       string
	links      []string
	categories []string
}

func (e feedEntry) document() string {
	var b strings.Builder
	b.WriteString(e.title)
	b.WriteByte('\n')
	if !e.published.IsZero() {
		fmt.Fprintf(&b, "Published: %s\n", e.published.Format(time.RFC3339))
	}
	b.WriteByte('\n')
	if e.body != "" {
		b.WriteString(e.body)
	} else {
		b.WriteString("No content available")
	}
	b.WriteByte('\n')
	if len(e.links) > 0 {
		b.WriteByte('\n')
		for _, l := range e.links {
			fmt.Fprintf(&b, "Link: %s\n", l)
		}
	}
	return b.String()
}

func (r *RSS) fetch(ctx context.Context) (string, []feedEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: building request for %s: %v", types.ErrNetwork, r.url, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: fetching %s: %v", types.ErrNetwork, r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", nil, fmt.Errorf("%w: %s returned status %d", types.ErrNetwork, r.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: reading response from %s: %v", types.ErrNetwork, r.url, err)
	}

	clean := cleanXMLNamespaces(body)
	if title, entries, ok := tryParseRSS(clean); ok {
		return title, entries, nil
	}
	if title, entries, ok := tryParseAtom(clean); ok {
		return title, entries, nil
	}
	return "", nil, fmt.Errorf("%w: %s is not a valid RSS or Atom feed", types.ErrParse, r.url)
}

var (
	reXMLNS    = regexp.MustCompile(`\sxmlns(?::\w+)?="[^"]*"`)
	reXMLPrefix = regexp.MustCompile(`<(/?)(\w+):(\w+)`)
)

func cleanXMLNamespaces(data []byte) []byte {
	data = reXMLNS.ReplaceAll(data, nil)
	data = reXMLPrefix.ReplaceAll(data, []byte("<${1}${3}"))
	return data
}

type rssDoc struct {
	Channel struct {
		Title string       `xml:"title"`
		Items []rssItemXML `xml:"item"`
	} `xml:"channel"`
}

type rssItemXML struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Encoded     string   `xml:"encoded"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

type atomDoc struct {
	Title   string         `xml:"title"`
	Entries []atomEntryXML `xml:"entry"`
}

type atomEntryXML struct {
	Title      string        `xml:"title"`
	Links      []atomLinkXML `xml:"link"`
	Summary    string        `xml:"summary"`
	Content    string        `xml:"content"`
	Updated    string        `xml:"updated"`
	Published  string        `xml:"published"`
	ID         string        `xml:"id"`
	Categories []atomCatXML  `xml:"category"`
}

type atomLinkXML struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomCatXML struct {
	Term  string `xml:"term,attr"`
	Label string `xml:"label,attr"`
}

func tryParseRSS(data []byte) (string, []feedEntry, bool) {
	var doc rssDoc
	if err := xml.Unmarshal(data, &doc); err != nil || len(doc.Channel.Items) == 0 {
		return "", nil, false
	}
	entries := make([]feedEntry, len(doc.Channel.Items))
	for i, x := range doc.Channel.Items {
		desc := x.Description
		if desc == "" {
			desc = x.Encoded
		}
		title := x.Title
		if title == "" {
			title = "Untitled"
		}
		var links []string
		if x.Link != "" {
			links = append(links, x.Link)
		}
		entries[i] = feedEntry{
			title:      title,
			published:  parseHTTPDate(x.PubDate),
			body:       desc,
			links:      links,
			categories: x.Categories,
		}
	}
	return doc.Channel.Title, entries, true
}

func tryParseAtom(data []byte) (string, []feedEntry, bool) {
	var doc atomDoc
	if err := xml.Unmarshal(data, &doc); err != nil || len(doc.Entries) == 0 {
		return "", nil, false
	}
	entries := make([]feedEntry, len(doc.Entries))
	for i, x := range doc.Entries {
		var links []string
		for _, l := range x.Links {
			links = append(links, l.Href)
		}
		desc := x.Summary
		if desc == "" {
			desc = x.Content
		}
		dateStr := x.Published
		if dateStr == "" {
			dateStr = x.Updated
		}
		title := x.Title
		if title == "" {
			title = "Untitled"
		}
		var cats []string
		for _, c := range x.Categories {
			label := c.Label
			if label == "" {
				label = c.Term
			}
			if label != "" {
				cats = append(cats, label)
			}
		}
		entries[i] = feedEntry{
			title:      title,
			published:  parseHTTPDate(dateStr),
			body:       desc,
			links:      links,
			categories: cats,
		}
	}
	return doc.Title, entries, true
}

var httpDateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func parseHTTPDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, f := range httpDateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func slugify(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}
