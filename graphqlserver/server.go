package graphqlserver

import (
	"context"
	"encoding/json"
	"errors"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"malldepot/graphql"
	gqlmodels "malldepot/graphql/models"
	gqlregistry "malldepot/graphql/registry"
	issueRepo "malldepot/model/repository/issue"
	stockRepo "malldepot/model/repository/stock"
	syncRepo "malldepot/model/repository/sync"
	"malldepot/service/search"
)

// RootResolver is the root for graphql-go. The query surface is read-only;
// mutations go through the REST API.
type RootResolver struct {
	DB *gorm.DB
}

func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements Query fields against the repositories.
type QueryResolver struct {
	db *gorm.DB
}

// PageArgs matches the common paging arguments (defaults in schema).
type PageArgs struct {
	Limit  int32
	Offset int32
}

func (a PageArgs) bounds(fallback int) (limit, offset int) {
	limit = fallback
	if a.Limit > 0 && a.Limit <= 500 {
		limit = int(a.Limit)
	}
	if a.Offset > 0 {
		offset = int(a.Offset)
	}
	return limit, offset
}

func (r *QueryResolver) Items(ctx context.Context, args PageArgs) (*gqlmodels.ItemPage, error) {
	limit, offset := args.bounds(50)
	items, total, err := stockRepo.NewStockRepository(r.db).List(limit, offset)
	if err != nil {
		return nil, err
	}
	return itemPage(items, total), nil
}

type ItemArgs struct {
	Code string
}

func (r *QueryResolver) Item(ctx context.Context, args ItemArgs) (*gqlmodels.Item, error) {
	item, err := stockRepo.NewStockRepository(r.db).FindByCode(args.Code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapItem(item), nil
}

func (r *QueryResolver) DeletedItems(ctx context.Context, args PageArgs) (*gqlmodels.DeletedItemPage, error) {
	limit, offset := args.bounds(50)
	rows, total, err := stockRepo.NewStockRepository(r.db).ListDeleted(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.DeletedItem, 0, len(rows))
	for i := range rows {
		out = append(out, mapDeletedItem(&rows[i]))
	}
	return &gqlmodels.DeletedItemPage{Items: out, Total: int32(total)}, nil
}

func (r *QueryResolver) Issues(ctx context.Context, args PageArgs) (*gqlmodels.IssuePage, error) {
	limit, offset := args.bounds(50)
	rows, total, err := issueRepo.NewIssueRepository(r.db).List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Issue, 0, len(rows))
	for i := range rows {
		out = append(out, mapIssue(&rows[i]))
	}
	return &gqlmodels.IssuePage{Issues: out, Total: int32(total)}, nil
}

func (r *QueryResolver) SyncSessions(ctx context.Context, args PageArgs) (*gqlmodels.SyncSessionPage, error) {
	limit, offset := args.bounds(20)
	rows, total, err := syncRepo.NewSyncRepository(r.db).ListSessions(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.SyncSession, 0, len(rows))
	for i := range rows {
		out = append(out, mapSession(&rows[i]))
	}
	return &gqlmodels.SyncSessionPage{Sessions: out, Total: int32(total)}, nil
}

type SearchArgs struct {
	Query string
	Limit int32
}

// Search uses the Elasticsearch index when configured and degrades to a
// LIKE query on the item table otherwise.
func (r *QueryResolver) Search(ctx context.Context, args SearchArgs) (*gqlmodels.ItemPage, error) {
	limit := 20
	if args.Limit > 0 && args.Limit <= 500 {
		limit = int(args.Limit)
	}

	svc := search.GetService()
	if svc.Available() {
		codes, total, err := svc.Search(ctx, args.Query, limit)
		if err == nil {
			return r.itemsByCode(codes, total)
		}
	}
	return r.likeSearch(args.Query, limit)
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
