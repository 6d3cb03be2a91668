package replay

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"sephora/crawler/internal/client"
	"sephora/crawler/internal/domain"
	"sephora/crawler/internal/resolver"
	"sephora/crawler/internal/sink"
)

// flakyClient fails its batch lookups until healthy is set.
type flakyClient struct {
	healthy   bool
	batchBody []byte
	calls     int
}

func (f *flakyClient) GetProductPage(ctx context.Context, category domain.Category, pageNumber int) (*domain.ProductPage, error) {
	panic("not used")
}

func (f *flakyClient) GetAllProductPages(ctx context.Context, category domain.Category) (*domain.ProductCollection, error) {
	panic("not used")
}

func (f *flakyClient) GetProductDetail(ctx context.Context, productID string) (*client.ProductDetail, error) {
	panic("not used")
}

func (f *flakyClient) GetSkuBatch(ctx context.Context, skuIDs []string) (*client.SkuBatchResponse, error) {
	f.calls++
	endpoint := "http://upstream/getSkuJson.jsp?skuId=" + strings.Join(skuIDs, ",")
	if !f.healthy {
		return &client.SkuBatchResponse{Endpoint: endpoint}, errors.New("upstream down")
	}
	return &client.SkuBatchResponse{Endpoint: endpoint, Body: f.batchBody}, nil
}

func testMapping() map[string]domain.Product {
	owner := domain.Product{ID: "p1", QuickLookDesc: "gloss", Category: "Lips", SkuIDs: []string{"100", "200"}}
	return map[string]domain.Product{"100": owner, "200": owner}
}

func TestRecordIDDerivation(t *testing.T) {
	tests := []struct {
		name     string
		category string
		endpoint string
		want     string
	}{
		{
			name:     "second identifier",
			category: "Lips",
			endpoint: "http://x/getSkuJson.jsp?skuId=100,200,300&include_product=true",
			want:     "sku_mapping_Lips_200.json",
		},
		{
			name:     "no comma falls back to query",
			category: "Lips",
			endpoint: "http://x/getSkuJson.jsp?skuId=100&include_product=true",
			want:     "sku_mapping_Lips_skuId-100-include_product-true.json",
		},
		{
			name:     "category spaces replaced",
			category: "Eye Shadow",
			endpoint: "http://x/getSkuJson.jsp?skuId=1,2",
			want:     "sku_mapping_Eye_Shadow_2.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recordID(tt.category, tt.endpoint); got != tt.want {
				t.Fatalf("recordID=%q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	recorder, err := NewRecorder(t.TempDir())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	errCtx := &resolver.ErrorContext{
		SkusEndpoint: "http://x/getSkuJson.jsp?skuId=100,200",
		Data:         json.RawMessage(`{"sku_number":"999"}`),
		Mapping:      testMapping(),
		Category:     "Lips",
	}

	id, err := recorder.Record(errCtx)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	ids, err := recorder.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("ids=%v, want [%s]", ids, id)
	}

	loaded, err := recorder.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Category != "Lips" || loaded.SkusEndpoint != errCtx.SkusEndpoint {
		t.Fatalf("loaded record differs: %+v", loaded)
	}
	if !reflect.DeepEqual(loaded.Mapping, errCtx.Mapping) {
		t.Fatalf("mapping not preserved:\n%+v\n%+v", loaded.Mapping, errCtx.Mapping)
	}

	if err := recorder.Remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ids, err = recorder.List()
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids=%v, want empty", ids)
	}
}

func TestRecorderDistinctBatchesDistinctRecords(t *testing.T) {
	recorder, err := NewRecorder(t.TempDir())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	first, err := recorder.Record(&resolver.ErrorContext{
		SkusEndpoint: "http://x/getSkuJson.jsp?skuId=100,200",
		Mapping:      testMapping(),
		Category:     "Lips",
	})
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	second, err := recorder.Record(&resolver.ErrorContext{
		SkusEndpoint: "http://x/getSkuJson.jsp?skuId=300,400",
		Mapping:      testMapping(),
		Category:     "Lips",
	})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}

	if first == second {
		t.Fatalf("distinct failing batches must not share a record id: %s", first)
	}
}

func TestReplayAllSuccessConsumesRecord(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewRecorder(dir + "/errors")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	fileSink, err := sink.NewFileSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	upstream := &flakyClient{batchBody: []byte(`[{"sku_number":"100"},{"sku_number":"200"}]`)}
	r := resolver.New(upstream)

	// Capture a failure.
	skus, errCtx := r.ResolveMapping(context.Background(), testMapping(), "Lips")
	if skus != nil || errCtx == nil {
		t.Fatalf("expected a batch failure, got skus=%v errCtx=%v", skus, errCtx)
	}
	if _, err := recorder.Record(errCtx); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Upstream recovers; replay the record.
	upstream.healthy = true
	replayer := NewReplayer(recorder, r, fileSink)
	results, err := replayer.ReplayAll(context.Background())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != OutcomeReplayed {
		t.Fatalf("results=%+v, want one replayed", results)
	}

	// The replayed collection matches what a direct resolve would produce.
	direct, errCtx := r.ResolveMapping(context.Background(), testMapping(), "Lips")
	if errCtx != nil {
		t.Fatalf("direct resolve: %+v", errCtx)
	}
	persisted, err := fileSink.ReadSkus("Lips")
	if err != nil {
		t.Fatalf("read skus: %v", err)
	}
	if !reflect.DeepEqual(persisted, direct) {
		t.Fatalf("replayed collection differs from direct resolve:\n%v\n%v", persisted, direct)
	}

	ids, err := recorder.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("consumed record should be removed, still have %v", ids)
	}
}

func TestReplayAllRepeatedFailureKeepsRecord(t *testing.T) {
	dir := t.TempDir()
	recorder, err := NewRecorder(dir + "/errors")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	fileSink, err := sink.NewFileSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	upstream := &flakyClient{}
	r := resolver.New(upstream)

	_, errCtx := r.ResolveMapping(context.Background(), testMapping(), "Lips")
	if _, err := recorder.Record(errCtx); err != nil {
		t.Fatalf("record: %v", err)
	}

	replayer := NewReplayer(recorder, r, fileSink)
	results, err := replayer.ReplayAll(context.Background())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != OutcomeFailed {
		t.Fatalf("results=%+v, want one failed", results)
	}

	ids, err := recorder.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("failed replay must leave a record for the next pass, have %v", ids)
	}

	// Replay never wrote a partial collection.
	skus, err := fileSink.ReadSkus("Lips")
	if err != nil {
		t.Fatalf("read skus: %v", err)
	}
	if len(skus) != 0 {
		t.Fatalf("no collection should be persisted on failure, got %v", skus)
	}
}
