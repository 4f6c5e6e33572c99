package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docsync/internal/api"
)

func doc(path, id string) *api.ServiceDocument {
	return &api.ServiceDocument{ContextPath: path, ContextID: id}
}

func TestShouldUpdate(t *testing.T) {
	tests := []struct {
		name    string
		cached  *api.ServiceDocument
		fetched *api.ServiceDocument
		want    bool
	}{
		{"no cached entry", nil, doc("/a", "v1"), true},
		{"same context id", doc("/a", "v1"), doc("/a", "v1"), false},
		{"same context id different case", doc("/a", "ABCDEF"), doc("/a", "abcdef"), false},
		{"changed context id", doc("/a", "v1"), doc("/a", "v2"), true},
		{"nil fetched", doc("/a", "v1"), nil, false},
		{"nil fetched and nothing cached", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldUpdate(tt.cached, tt.fetched))
		})
	}
}

func TestShouldUpdate_IgnoresPayload(t *testing.T) {
	cached := &api.ServiceDocument{ContextPath: "/a", ContextID: "v1", Payload: []byte("old")}
	fetched := &api.ServiceDocument{ContextPath: "/a", ContextID: "V1", Payload: []byte("new")}

	assert.False(t, ShouldUpdate(cached, fetched))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ChangeAdded, Classify(nil, doc("/a", "v1")))
	assert.Equal(t, ChangeUpdated, Classify(doc("/a", "v1"), doc("/a", "v2")))
	assert.Equal(t, ChangeNone, Classify(doc("/a", "v1"), doc("/a", "V1")))
	assert.Equal(t, ChangeNone, Classify(doc("/a", "v1"), nil))
}
