package resolver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sephora/crawler/internal/client"
	"sephora/crawler/internal/domain"
)

// fakeClient serves a canned batch body and records the ids it was asked for.
type fakeClient struct {
	batchBody []byte
	batchErr  error
	gotIDs    []string
	calls     int
}

func (f *fakeClient) GetProductPage(ctx context.Context, category domain.Category, pageNumber int) (*domain.ProductPage, error) {
	panic("not used")
}

func (f *fakeClient) GetAllProductPages(ctx context.Context, category domain.Category) (*domain.ProductCollection, error) {
	panic("not used")
}

func (f *fakeClient) GetProductDetail(ctx context.Context, productID string) (*client.ProductDetail, error) {
	panic("not used")
}

func (f *fakeClient) GetSkuBatch(ctx context.Context, skuIDs []string) (*client.SkuBatchResponse, error) {
	f.calls++
	f.gotIDs = append([]string{}, skuIDs...)
	resp := &client.SkuBatchResponse{Endpoint: "http://upstream/getSkuJson.jsp?skuId=100,200", Body: f.batchBody}
	if f.batchErr != nil {
		return &client.SkuBatchResponse{Endpoint: resp.Endpoint}, f.batchErr
	}
	return resp, nil
}

func lipstick(id string, skuIDs ...string) domain.Product {
	return domain.Product{
		ID:            id,
		VariationType: "Size",
		QuickLookDesc: "desc-" + id,
		Category:      "Lips",
		SkuIDs:        skuIDs,
	}
}

func TestBuildMapping(t *testing.T) {
	products := []domain.Product{
		lipstick("p1", "100", "200"),
		lipstick("p2"), // no SKUs: contributes nothing
		lipstick("p3", "300"),
	}

	skuIDs, mapping := BuildMapping(products)

	if want := []string{"100", "200", "300"}; !reflect.DeepEqual(skuIDs, want) {
		t.Fatalf("skuIDs=%v, want %v", skuIDs, want)
	}
	if len(mapping) != 3 {
		t.Fatalf("mapping size=%d, want 3", len(mapping))
	}
	if mapping["100"].ID != "p1" || mapping["300"].ID != "p3" {
		t.Fatalf("mapping owners wrong: %v", mapping)
	}
}

func TestResolveListResponse(t *testing.T) {
	fake := &fakeClient{batchBody: []byte(`[
		{"sku_number":"100","variation_value":"Ruby","primary_product":{"variation_type":"Color"}},
		{"sku_number":"200"}
	]`)}
	r := New(fake)

	skus, errCtx := r.Resolve(context.Background(), []domain.Product{lipstick("p1", "100", "200")}, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}
	if len(skus) != 2 {
		t.Fatalf("skus=%d, want 2", len(skus))
	}

	// The SKU's own nested variation type wins over the owning product's.
	if got := skus["100"].VariationType; got != "Color" {
		t.Fatalf("sku 100 variation type=%q, want Color", got)
	}
	// Absent on the SKU, the owning product's applies.
	if got := skus["200"].VariationType; got != "Size" {
		t.Fatalf("sku 200 variation type=%q, want Size", got)
	}
	// Description and category always come from the owning product.
	if skus["100"].QuickLookDesc != "desc-p1" || skus["100"].Category != "Lips" {
		t.Fatalf("sku 100 owner fields wrong: %+v", skus["100"])
	}
}

func TestResolveSingleObjectResponse(t *testing.T) {
	fake := &fakeClient{batchBody: []byte(`{"sku_number":"100","variation_value":"Ruby"}`)}
	r := New(fake)

	skus, errCtx := r.Resolve(context.Background(), []domain.Product{lipstick("p1", "100")}, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}
	if len(skus) != 1 {
		t.Fatalf("skus=%d, want 1", len(skus))
	}
	if skus["100"].VariationValue != "Ruby" {
		t.Fatalf("single-object response not normalized: %+v", skus)
	}
}

func TestResolveNoSkuIDsIssuesNoRequest(t *testing.T) {
	fake := &fakeClient{}
	r := New(fake)

	skus, errCtx := r.Resolve(context.Background(), []domain.Product{lipstick("p1")}, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}
	if len(skus) != 0 {
		t.Fatalf("skus=%d, want 0", len(skus))
	}
	if fake.calls != 0 {
		t.Fatalf("batch calls=%d, want 0", fake.calls)
	}
}

func TestResolveTransportFailure(t *testing.T) {
	fake := &fakeClient{batchErr: errors.New("connection refused")}
	r := New(fake)

	skus, errCtx := r.Resolve(context.Background(), []domain.Product{lipstick("p1", "100")}, "Lips")
	if skus != nil {
		t.Fatalf("expected no collection on failure, got %v", skus)
	}
	if errCtx == nil {
		t.Fatal("expected an error context")
	}
	if errCtx.Category != "Lips" || errCtx.SkusEndpoint == "" {
		t.Fatalf("error context incomplete: %+v", errCtx)
	}
	if len(errCtx.Mapping) != 1 || errCtx.Mapping["100"].ID != "p1" {
		t.Fatalf("error context mapping wrong: %+v", errCtx.Mapping)
	}
	if errCtx.Data != nil {
		t.Fatalf("no response was received, Data should be absent")
	}
}

func TestResolveMappingInconsistencyFailsWholeBatch(t *testing.T) {
	fake := &fakeClient{batchBody: []byte(`[{"sku_number":"100"},{"sku_number":"999"}]`)}
	r := New(fake)

	skus, errCtx := r.Resolve(context.Background(), []domain.Product{lipstick("p1", "100")}, "Lips")
	if skus != nil {
		t.Fatalf("batch should fail as a whole, got partial collection %v", skus)
	}
	if errCtx == nil {
		t.Fatal("expected an error context")
	}
	if errCtx.Data == nil {
		t.Fatalf("the decoded response should be captured for replay context")
	}
}

func TestResolveIdempotent(t *testing.T) {
	fake := &fakeClient{batchBody: []byte(`[{"sku_number":"100"},{"sku_number":"200"}]`)}
	r := New(fake)
	products := []domain.Product{lipstick("p1", "100", "200")}

	first, errCtx := r.Resolve(context.Background(), products, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}
	second, errCtx := r.Resolve(context.Background(), products, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestResolveMappingMatchesDirectResolve(t *testing.T) {
	fake := &fakeClient{batchBody: []byte(`[{"sku_number":"100"},{"sku_number":"200"}]`)}
	r := New(fake)
	products := []domain.Product{lipstick("p1", "100", "200")}

	direct, errCtx := r.Resolve(context.Background(), products, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}

	_, mapping := BuildMapping(products)
	replayed, errCtx := r.ResolveMapping(context.Background(), mapping, "Lips")
	if errCtx != nil {
		t.Fatalf("unexpected error context: %+v", errCtx)
	}

	if !reflect.DeepEqual(direct, replayed) {
		t.Fatalf("mapping-driven resolve differs from direct resolve:\ndirect:   %v\nreplayed: %v", direct, replayed)
	}
}
