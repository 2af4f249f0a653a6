package gmaps

import (
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
)

type fakeListing struct {
	html     string
	url      string
	clickErr error
}

type fakeSearch struct {
	counts   []int
	listings []fakeListing
}

// fakePage plays back canned search results. The result count reported
// after the n-th wheel step is counts[n-1], clamped to the last entry.
type fakePage struct {
	searches map[string]*fakeSearch
	navErr   error

	current *fakeSearch
	wheels  int
	nextID  cdp.NodeID
	nodes   map[cdp.NodeID]fakeListing
	url     string
	html    string

	// renderLag is how many Settle calls pass between a click updating
	// the URL and the detail panel re-rendering.
	renderLag   int
	pendingHTML string
	pendingIn   int

	queries []string
	settles []time.Duration
	closed  bool
}

func newFakePage(searches map[string]*fakeSearch) *fakePage {
	return &fakePage{
		searches: searches,
		nodes:    make(map[cdp.NodeID]fakeListing),
		url:      "https://www.google.com/maps/@13.0,80.2,12z",
	}
}

func detailHTML(name, address string) string {
	var body string
	if name != "" {
		body += fmt.Sprintf(`<h1 class="DUwDvf lfPIob">  %s </h1>`, name)
	}
	if address != "" {
		body += fmt.Sprintf(`<button data-item-id="address"><div class="Io6YTe fontBodyMedium kR99db">%s
</div></button>`, address)
	}
	return "<html><body><div role=\"main\">" + body + "</div></body></html>"
}

func placeURL(name string, lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps/place/%s/@%v,%v,17z/data=!3m1!4b1", name, lat, lon)
}

// uniqueListings builds n distinct listings named prefix-1..prefix-n.
func uniqueListings(prefix string, n int) []fakeListing {
	out := make([]fakeListing, n)
	for i := range out {
		name := fmt.Sprintf("%s-%d", prefix, i+1)
		out[i] = fakeListing{
			html: detailHTML(name, name+" Main Road"),
			url:  placeURL(name, 12.9+float64(i)*0.001, 80.2),
		}
	}
	return out
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	return p.navErr
}

func (p *fakePage) Fill(sel, text string) error {
	p.queries = append(p.queries, text)
	return nil
}

func (p *fakePage) Submit(sel string) error {
	p.current = p.searches[p.queries[len(p.queries)-1]]
	p.wheels = 0
	return nil
}

func (p *fakePage) Settle(sel string, max time.Duration) error {
	p.settles = append(p.settles, max)
	if p.pendingIn > 0 {
		p.pendingIn--
		if p.pendingIn == 0 {
			p.html = p.pendingHTML
		}
	}
	return nil
}

func (p *fakePage) Hover(sel string) error {
	if p.current == nil {
		return fmt.Errorf("hover %s: %w", sel, ErrNoMatch)
	}
	return nil
}

func (p *fakePage) Wheel(dx, dy float64) error {
	p.wheels++
	return nil
}

func (p *fakePage) Count(sel string) (int, error) {
	if p.current == nil || len(p.current.counts) == 0 {
		return 0, nil
	}
	idx := p.wheels - 1
	if idx >= len(p.current.counts) {
		idx = len(p.current.counts) - 1
	}
	return p.current.counts[idx], nil
}

func (p *fakePage) Parents(sel string) ([]*cdp.Node, error) {
	n, _ := p.Count(sel)
	nodes := make([]*cdp.Node, 0, n)
	for i := 0; i < n; i++ {
		listing := fakeListing{html: detailHTML("Filler", "Filler Road"), url: placeURL("Filler", 12.9, 80.2)}
		if i < len(p.current.listings) {
			listing = p.current.listings[i]
		}
		p.nextID++
		p.nodes[p.nextID] = listing
		nodes = append(nodes, &cdp.Node{NodeID: p.nextID})
	}
	return nodes, nil
}

func (p *fakePage) Click(node *cdp.Node) error {
	listing, ok := p.nodes[node.NodeID]
	if !ok {
		return errors.New("node is detached")
	}
	if listing.clickErr != nil {
		return listing.clickErr
	}
	p.url = listing.url
	if p.renderLag > 0 {
		p.pendingHTML, p.pendingIn = listing.html, p.renderLag
		return nil
	}
	p.html = listing.html
	return nil
}

func (p *fakePage) HTML() (string, error) { return p.html, nil }

func (p *fakePage) URL() (string, error) { return p.url, nil }

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}
