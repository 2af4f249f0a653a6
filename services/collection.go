package services

import "gated-communities-scraper/models"

// Collection is the ordered, append-only set of communities found for one
// postal code. No two members share a (name, address) identity.
type Collection struct {
	PostalCode  string
	communities []*models.Community
	seen        map[models.Key]struct{}
}

// NewCollection creates an empty Collection for postalCode.
func NewCollection(postalCode string) *Collection {
	return &Collection{
		PostalCode: postalCode,
		seen:       make(map[models.Key]struct{}),
	}
}

// Contains reports whether a community with the same name and address is
// already present.
func (c *Collection) Contains(community *models.Community) bool {
	_, ok := c.seen[community.Key()]
	return ok
}

// Add appends community unless its identity is already present. It returns
// false for duplicates.
func (c *Collection) Add(community *models.Community) bool {
	key := community.Key()
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.communities = append(c.communities, community)
	return true
}

func (c *Collection) Len() int { return len(c.communities) }

// Communities returns the members in insertion order.
func (c *Collection) Communities() []*models.Community {
	out := make([]*models.Community, len(c.communities))
	copy(out, c.communities)
	return out
}
