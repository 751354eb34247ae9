package site

import (
	"context"
	"sort"
	"testing"

	"github.com/hdang/siteadmin/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSettingRepo struct {
	settings map[string]string
}

func (r *memSettingRepo) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	value, ok := r.settings[key]
	if !ok {
		return nil, ErrSettingNotFound
	}
	return &model.SiteSetting{Key: key, Value: value}, nil
}

func (r *memSettingRepo) List(ctx context.Context) ([]*model.SiteSetting, error) {
	var out []*model.SiteSetting
	for key, value := range r.settings {
		out = append(out, &model.SiteSetting{Key: key, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *memSettingRepo) Upsert(ctx context.Context, setting *model.SiteSetting) error {
	r.settings[setting.Key] = setting.Value
	return nil
}

func TestSettingPutAndGet(t *testing.T) {
	svc := NewSettingService(&memSettingRepo{settings: make(map[string]string)})

	_, err := svc.Get(context.Background(), "site.title")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	setting, err := svc.Put(context.Background(), "site.title", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", setting.Value)

	// Put on an existing key overwrites.
	setting, err = svc.Put(context.Background(), "site.title", "Acme Inc")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", setting.Value)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "site.title", list[0].Key)
}
