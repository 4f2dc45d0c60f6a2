package services

import "gorm.io/gorm"

// ListFilter narrows an owner's listing. Search matches title and body
// text; Tags match against the stored jsonb array, all of them when
// MatchAll is set, any one otherwise.
type ListFilter struct {
	Search   string
	Tags     []string
	MatchAll bool
}

// tagConditions applies the filter's tag containment clauses to q. base
// must be the service's root *gorm.DB so the any-match group does not
// escape into the surrounding WHERE.
func tagConditions(base, q *gorm.DB, f ListFilter) *gorm.DB {
	if len(f.Tags) == 0 {
		return q
	}
	if f.MatchAll {
		for _, tag := range f.Tags {
			q = q.Where("tags @> ?", tagsJSON([]string{tag}))
		}
		return q
	}
	group := base.Where("tags @> ?", tagsJSON([]string{f.Tags[0]}))
	for _, tag := range f.Tags[1:] {
		group = group.Or("tags @> ?", tagsJSON([]string{tag}))
	}
	return q.Where(group)
}
