package di_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	command "github.com/goliatone/go-command"

	cachecmd "github.com/goliatone/go-blog/internal/commands/cache"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/httpcache"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func postsFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.md": &fstest.MapFile{Data: []byte("---\ntitle: Hello\nsummary: Hi\ndate: 1700000000\n---\n[out](https://other.com) [in](http://blog.test/x)\n")},
	}
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Host = "blog.test"
	cfg.Site.BaseURL = "http://blog.test"
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Content.PostsDir = ""
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrPostsDirRequired) {
		t.Fatalf("expected ErrPostsDirRequired, got %v", err)
	}
}

func TestNewContainerMissingPostsDir(t *testing.T) {
	cfg := testConfig()
	cfg.Content.PostsDir = t.TempDir() + "/missing"
	if _, err := di.NewContainer(cfg, di.WithLogWriter(io.Discard)); err == nil {
		t.Fatal("expected error for missing posts directory")
	}
}

func TestContainerWiresRenderOptionsFromConfig(t *testing.T) {
	container, err := di.NewContainer(testConfig(), di.WithPostsFS(postsFS()), di.WithLogWriter(io.Discard))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	opts := container.RenderOptions()
	if opts.SiteHost != "blog.test" {
		t.Fatalf("expected site host blog.test, got %q", opts.SiteHost)
	}
	if !opts.SafeMode || !opts.Highlight {
		t.Fatalf("expected safe mode and highlighting from defaults, got %+v", opts)
	}
	if container.ResponseStore() != nil || container.CacheCommands() != nil {
		t.Fatal("disabled cache should not build a store or commands")
	}
}

func TestContainerServesPostsWithResponseCache(t *testing.T) {
	cfg := testConfig()
	cfg.ResponseCache.Enabled = true

	container, err := di.NewContainer(cfg,
		di.WithPostsFS(postsFS()),
		di.WithLogWriter(io.Discard),
		di.WithExecutionContext(httpcache.ExecutionContext{Interactive: true}),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	app := container.Server().App()

	for i, want := range []string{"miss", "hit"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/hello", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if got := resp.Header.Get(httpcache.HeaderCacheStatus); got != want {
			t.Fatalf("request %d: expected %s, got %q", i, want, got)
		}
		if !bytes.Contains(body, []byte(`<a href="https://other.com" target="_blank">out</a>`)) {
			t.Fatalf("expected external link marked:\n%s", body)
		}
		if !bytes.Contains(body, []byte(`<a href="http://blog.test/x">in</a>`)) {
			t.Fatalf("expected internal link untouched:\n%s", body)
		}
	}

	if err := container.CacheCommands().Clear.Execute(context.Background(), cachecmd.ClearResponseCacheCommand{Reason: "test"}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/hello", nil))
	if err != nil {
		t.Fatalf("request after clear: %v", err)
	}
	if got := resp.Header.Get(httpcache.HeaderCacheStatus); got != "miss" {
		t.Fatalf("expected miss after clear, got %q", got)
	}
}

func TestContainerNonInteractiveSkipsCache(t *testing.T) {
	cfg := testConfig()
	cfg.ResponseCache.Enabled = true

	container, err := di.NewContainer(cfg, di.WithPostsFS(postsFS()), di.WithLogWriter(io.Discard))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	resp, err := container.Server().App().Test(httptest.NewRequest(http.MethodGet, "/hello", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get(httpcache.HeaderCacheStatus); got != "" {
		t.Fatalf("expected cache bypass, got %q", got)
	}

	cfg.Environment = runtimeconfig.EnvironmentTesting
	container, err = di.NewContainer(cfg, di.WithPostsFS(postsFS()), di.WithLogWriter(io.Discard))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	resp, err = container.Server().App().Test(httptest.NewRequest(http.MethodGet, "/hello", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := resp.Header.Get(httpcache.HeaderCacheStatus); got != "miss" {
		t.Fatalf("expected testing environment to cache, got %q", got)
	}
}

type recordingRegistry struct{ count int }

func (r *recordingRegistry) RegisterCommand(any) error {
	r.count++
	return nil
}

func TestContainerRegistersCommandsAndCron(t *testing.T) {
	cfg := testConfig()
	cfg.ResponseCache.Enabled = true

	reg := &recordingRegistry{}
	var expressions []string
	cron := func(cfg command.HandlerConfig, _ any) error {
		expressions = append(expressions, cfg.Expression)
		return nil
	}

	container, err := di.NewContainer(cfg,
		di.WithPostsFS(postsFS()),
		di.WithLogWriter(io.Discard),
		di.WithCommandRegistry(reg),
		di.WithCronRegistrar(cron),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if reg.count != 2 {
		t.Fatalf("expected 2 command registrations, got %d", reg.count)
	}
	if len(expressions) != 1 || expressions[0] != "@every 5m" {
		t.Fatalf("unexpected cron registrations %v", expressions)
	}
	if container.Scheduler() != nil {
		t.Fatal("external registrar should replace the built in scheduler")
	}
}

func TestContainerStartAndClose(t *testing.T) {
	cfg := testConfig()
	cfg.ResponseCache.Enabled = true
	cfg.Content.PostsDir = t.TempDir()
	cfg.Content.Watch = true

	var logs strings.Builder
	container, err := di.NewContainer(cfg, di.WithLogWriter(&logs))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.Scheduler() == nil || container.Scheduler().Len() != 1 {
		t.Fatal("expected purge job on the built in scheduler")
	}
	if container.Watcher() == nil {
		t.Fatal("expected content watcher")
	}

	ctx := context.Background()
	if err := container.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := container.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(logs.String(), "posts.watcher.started") {
		t.Fatalf("expected watcher start log, got %s", logs.String())
	}
}
