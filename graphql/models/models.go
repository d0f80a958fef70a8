package models

import graphql "github.com/graph-gophers/graphql-go"

type Vendor struct {
	ID      graphql.ID
	Name    string
	Country *string
	Status  string
}

type Item struct {
	ID             graphql.ID
	Code           string
	Name           string
	Description    string
	Picture        *string
	PricePerUnit   float64
	UnitsInStock   int32
	UnitsPurchased int32
	Status         string
	RequiresSync   bool
	LastUpdated    string
	Vendor         *Vendor
}

type ItemPage struct {
	Items []*Item
	Total int32
}

type DeletedItem struct {
	ID           graphql.ID
	Code         string
	Name         string
	UserName     string
	VendorName   string
	DeletionTime string
	RequiresSync bool
}

type DeletedItemPage struct {
	Items []*DeletedItem
	Total int32
}

type Issue struct {
	ID         graphql.ID
	Message    string
	Status     string
	RaisedTime string
	SolvedTime *string
}

type IssuePage struct {
	Issues []*Issue
	Total  int32
}

type SyncSession struct {
	ID              graphql.ID
	RemoteName      string
	ConnectionType  string
	ErrorCode       int32
	TimestampStart  string
	TimestampEnd    string
	UpdatesReceived int32
	UpdatesSent     int32
	Details         *string
}

type SyncSessionPage struct {
	Sessions []*SyncSession
	Total    int32
}
