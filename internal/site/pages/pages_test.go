package pages

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-interiors/cms-backend/internal/content/domain"
	"github.com/atelier-interiors/cms-backend/internal/content/query"
	"github.com/atelier-interiors/cms-backend/internal/content/store/memory"
	"github.com/atelier-interiors/cms-backend/internal/site/pagecache"
)

func setup(t *testing.T) (*miniredis.Miniredis, *memory.Store, *Service) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.CreateProject(ctx, &domain.Project{Slug: "loft-42", Title: "Loft 42", RoomType: "living", Featured: true}))
	require.NoError(t, st.CreateProject(ctx, &domain.Project{Slug: "den-7", Title: "Den 7", RoomType: "living"}))
	require.NoError(t, st.CreateTestimonial(ctx, &domain.Testimonial{ClientName: "Mira", Quote: "Lovely", Rating: 5, ProjectSlug: "loft-42"}))

	return mr, st, New(query.New(st), pagecache.NewRedis(client, time.Hour))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", Normalize(""))
	assert.Equal(t, "/", Normalize("/"))
	assert.Equal(t, "/projects/loft-42", Normalize("projects/Loft-42/"))
}

func TestPathsFor(t *testing.T) {
	assert.Equal(t, []string{"/", "/projects", "/projects/*"}, PathsFor(domain.TableProjects))
	assert.Equal(t, []string{"*"}, PathsFor(domain.TableSiteContent))
	assert.Empty(t, PathsFor(domain.TableInquiries))
	for _, table := range domain.WatchedTables {
		if table == domain.TableInquiries {
			continue
		}
		assert.Contains(t, PathsFor(table), PathHome, "table %s must refresh the home page", table)
	}
}

func TestBuild_ProjectDetail(t *testing.T) {
	_, _, svc := setup(t)

	b, err := svc.Build(context.Background(), "/projects/loft-42")
	require.NoError(t, err)
	assert.Equal(t, "loft-42", b["project"].(*domain.Project).Slug)
	related := b["related"].([]domain.Project)
	require.Len(t, related, 1)
	assert.Equal(t, "den-7", related[0].Slug)
	assert.Len(t, b["testimonials"], 1)

	_, err = svc.Build(context.Background(), "/projects/nope")
	assert.ErrorIs(t, err, ErrUnknownPage)
	_, err = svc.Build(context.Background(), "/admin")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestRender_CachesAndInvalidates(t *testing.T) {
	mr, st, svc := setup(t)
	ctx := context.Background()

	for _, p := range []string{"/", "/projects/loft-42", "/about", "/videos"} {
		_, err := svc.Render(ctx, p)
		require.NoError(t, err)
	}
	assert.True(t, mr.Exists("page:/projects/loft-42"))

	// Stale until invalidated.
	p, err := st.GetProjectBySlug(ctx, "loft-42")
	require.NoError(t, err)
	p.Title = "Loft Forty-Two"
	require.NoError(t, st.UpdateProject(ctx, p))

	body, err := svc.Render(ctx, "/projects/loft-42")
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Loft 42"`)

	require.NoError(t, svc.Invalidate(ctx, domain.TableProjects))
	assert.False(t, mr.Exists("page:/"))
	assert.False(t, mr.Exists("page:/projects/loft-42"))
	assert.True(t, mr.Exists("page:/about"))
	assert.True(t, mr.Exists("page:/videos"))

	body, err = svc.Render(ctx, "/projects/loft-42")
	require.NoError(t, err)
	var bundle map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &bundle))
	assert.Contains(t, string(bundle["project"]), `"Loft Forty-Two"`)

	require.NoError(t, svc.Invalidate(ctx, domain.TableInquiries))
	assert.True(t, mr.Exists("page:/about"))

	require.NoError(t, svc.Invalidate(ctx, domain.TableSiteContent))
	assert.Equal(t, []string{"pagecache:generation"}, mr.Keys())
}

// interleavedCache runs beforeSet between the build and the cache fill.
type interleavedCache struct {
	pagecache.Cache
	beforeSet func()
}

func (c *interleavedCache) Set(ctx context.Context, path string, body []byte, gen int64) (bool, error) {
	if c.beforeSet != nil {
		c.beforeSet()
		c.beforeSet = nil
	}
	return c.Cache.Set(ctx, path, body, gen)
}

func TestRender_WriteDuringBuildIsNotCached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := memory.New()
	ctx := context.Background()
	p := &domain.Project{Slug: "loft-42", Title: "Loft 42", RoomType: "Living Spaces"}
	require.NoError(t, st.CreateProject(ctx, p))

	cache := &interleavedCache{Cache: pagecache.NewRedis(client, time.Hour)}
	svc := New(query.New(st), cache)
	cache.beforeSet = func() {
		p.Title = "Loft Forty-Two"
		require.NoError(t, st.UpdateProject(ctx, p))
		require.NoError(t, svc.Invalidate(ctx, domain.TableProjects))
	}

	body, err := svc.Render(ctx, "/projects/loft-42")
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Loft 42"`)
	assert.False(t, mr.Exists("page:/projects/loft-42"))

	body, err = svc.Render(ctx, "/projects/loft-42")
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Loft Forty-Two"`)
	assert.True(t, mr.Exists("page:/projects/loft-42"))
}

func TestRender_WorksWithoutCache(t *testing.T) {
	st := memory.New()
	svc := New(query.New(st), nil)

	body, err := svc.Render(context.Background(), "/contact")
	require.NoError(t, err)
	assert.Contains(t, string(body), `"contact"`)
	assert.NoError(t, svc.Invalidate(context.Background(), domain.TableProjects))
}
