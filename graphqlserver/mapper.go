package graphqlserver

import (
	"fmt"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	gqlmodels "malldepot/graphql/models"
	"malldepot/model/entity"
)

func gqlID(id uint) graphql.ID {
	return graphql.ID(fmt.Sprintf("%d", id))
}

func gqlTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapItem(item *entity.Item) *gqlmodels.Item {
	out := &gqlmodels.Item{
		ID:             gqlID(item.ID),
		Code:           item.Code,
		Name:           item.Name,
		Description:    item.Description,
		PricePerUnit:   item.PricePerUnit,
		UnitsInStock:   int32(item.UnitsInStock),
		UnitsPurchased: int32(item.UnitsPurchased),
		Status:         string(item.Status),
		RequiresSync:   item.RequiresSync,
		LastUpdated:    gqlTime(item.LastUpdated),
	}
	if item.Picture != "" {
		p := item.Picture
		out.Picture = &p
	}
	if item.Vendor != nil {
		out.Vendor = mapVendor(item.Vendor)
	}
	return out
}

func mapVendor(v *entity.Vendor) *gqlmodels.Vendor {
	out := &gqlmodels.Vendor{
		ID:     gqlID(v.ID),
		Name:   v.Name,
		Status: string(v.Status),
	}
	if v.Country != "" {
		c := v.Country
		out.Country = &c
	}
	return out
}

func mapDeletedItem(d *entity.DeletedItem) *gqlmodels.DeletedItem {
	return &gqlmodels.DeletedItem{
		ID:           gqlID(d.ID),
		Code:         d.Code,
		Name:         d.Name,
		UserName:     d.UserName,
		VendorName:   d.VendorName,
		DeletionTime: gqlTime(d.DeletionTime),
		RequiresSync: d.RequiresSync,
	}
}

func mapIssue(i *entity.Issue) *gqlmodels.Issue {
	out := &gqlmodels.Issue{
		ID:         gqlID(i.ID),
		Message:    i.Message,
		Status:     string(i.Status),
		RaisedTime: gqlTime(i.RaisedTime),
	}
	if i.SolvedTime != nil {
		s := gqlTime(*i.SolvedTime)
		out.SolvedTime = &s
	}
	return out
}

func mapSession(s *entity.SyncHistory) *gqlmodels.SyncSession {
	out := &gqlmodels.SyncSession{
		ID:              gqlID(s.ID),
		RemoteName:      s.RemoteName,
		ConnectionType:  string(s.ConnectionType),
		ErrorCode:       int32(s.ErrorCode),
		TimestampStart:  gqlTime(s.TimestampStart),
		TimestampEnd:    gqlTime(s.TimestampEnd),
		UpdatesReceived: int32(s.UpdatesReceived),
		UpdatesSent:     int32(s.UpdatesSent),
	}
	if len(s.Details) > 0 {
		d := string(s.Details)
		out.Details = &d
	}
	return out
}

func itemPage(items []entity.Item, total int64) *gqlmodels.ItemPage {
	out := make([]*gqlmodels.Item, 0, len(items))
	for i := range items {
		out = append(out, mapItem(&items[i]))
	}
	return &gqlmodels.ItemPage{Items: out, Total: int32(total)}
}
