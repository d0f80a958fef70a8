package graphqlserver

import (
	gqlmodels "malldepot/graphql/models"
	"malldepot/model/entity"
)

// itemsByCode re-reads search hits from the database, preserving the order
// Elasticsearch ranked them in.
func (r *QueryResolver) itemsByCode(codes []string, total int) (*gqlmodels.ItemPage, error) {
	if len(codes) == 0 {
		return &gqlmodels.ItemPage{Items: []*gqlmodels.Item{}, Total: int32(total)}, nil
	}
	var items []entity.Item
	if err := r.db.Preload("Vendor").Where("code IN ?", codes).Find(&items).Error; err != nil {
		return nil, err
	}
	byCode := make(map[string]*entity.Item, len(items))
	for i := range items {
		byCode[items[i].Code] = &items[i]
	}
	out := make([]*gqlmodels.Item, 0, len(codes))
	for _, code := range codes {
		if item, ok := byCode[code]; ok {
			out = append(out, mapItem(item))
		}
	}
	return &gqlmodels.ItemPage{Items: out, Total: int32(total)}, nil
}

// likeSearch is the database fallback when Elasticsearch is not configured.
func (r *QueryResolver) likeSearch(query string, limit int) (*gqlmodels.ItemPage, error) {
	pattern := "%" + query + "%"
	var total int64
	base := r.db.Model(&entity.Item{}).
		Where("code LIKE ? OR name LIKE ? OR description LIKE ?", pattern, pattern, pattern)
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}
	var items []entity.Item
	err := r.db.Preload("Vendor").
		Where("code LIKE ? OR name LIKE ? OR description LIKE ?", pattern, pattern, pattern).
		Order("name").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return itemPage(items, total), nil
}
