package invitectl

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/service"
	"github.com/aussiebroadwan/lectern/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]string{"verify", "-token", "abc"}, noEnv)
	require.NoError(t, err)
	require.Equal(t, CommandVerify, cfg.Command)
	require.Equal(t, "abc", cfg.Token)
	require.Equal(t, "lectern.db", cfg.DatabaseFile)
	require.Equal(t, "http://localhost:8080", cfg.PublicURL)
	require.Equal(t, "master.key", cfg.MasterKeyPath)
}

func TestParseConfigFromEnv(t *testing.T) {
	lookup := func(k string) (string, bool) {
		v, ok := map[string]string{
			"LECTERN_DATABASE_FILE": "/data/lectern.db",
			"LECTERN_PUBLIC_URL":    " https://learn.example.edu ",
		}[k]
		return v, ok
	}

	cfg, err := ParseConfig([]string{"create-invite", "-email", "alice@example.com", "-course", "c1"}, lookup)
	require.NoError(t, err)
	require.Equal(t, "/data/lectern.db", cfg.DatabaseFile)
	require.Equal(t, "https://learn.example.edu", cfg.PublicURL)

	cfg, err = ParseConfig([]string{"create-invite", "-email", "a@b.c", "-course", "c1", "-base-url", "https://x.test"}, lookup)
	require.NoError(t, err)
	require.Equal(t, "https://x.test", cfg.PublicURL)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"delete"}},
		{"create without course", []string{"create-invite", "-email", "a@b.c"}},
		{"verify without token", []string{"verify"}},
		{"list without course", []string{"list"}},
		{"unknown flag", []string{"list", "-course", "c1", "-token", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.args, noEnv)
			require.Error(t, err)
		})
	}
}

var linkRe = regexp.MustCompile(`link:\s+(\S+)`)

func TestRunAgainstDatabase(t *testing.T) {
	dir := t.TempDir()
	base := Config{
		DatabaseFile:  filepath.Join(dir, "lectern.db"),
		PepperFile:    filepath.Join(dir, "pepper"),
		MasterKeyPath: filepath.Join(dir, "master.key"),
		PublicURL:     "https://learn.example.edu",
	}
	t.Cleanup(cryptox.ResetMasterKeyForTesting)

	courseID := seedCourse(t, base)
	ctx := context.Background()

	run := func(cfg Config) string {
		t.Helper()
		var out bytes.Buffer
		require.NoError(t, Run(ctx, cfg, &out, nil))
		return out.String()
	}

	// 1. Create, then create again: the pending invite is reused.
	create := base
	create.Command = CommandCreateInvite
	create.Email = "alice@example.com"
	create.CourseID = courseID

	first := run(create)
	require.Contains(t, first, "Invite created:")
	require.Contains(t, first, "Intro to Go")

	// Each run is its own process; only the key file carries over.
	cryptox.ResetMasterKeyForTesting()
	second := run(create)
	require.Contains(t, second, "A pending invite already exists:")

	m1, m2 := linkRe.FindStringSubmatch(first), linkRe.FindStringSubmatch(second)
	require.Len(t, m1, 2)
	require.Len(t, m2, 2)
	require.Equal(t, m1[1], m2[1])

	link, err := url.Parse(m1[1])
	require.NoError(t, err)
	require.Equal(t, "/login", link.Path)
	require.Equal(t, "alice@example.com", link.Query().Get("email"))
	token := link.Query().Get("token")
	require.Len(t, token, 64)

	// 2. Verify.
	verify := base
	verify.Command = CommandVerify
	verify.Token = token
	out := run(verify)
	require.Regexp(t, `status:\s+valid`, out)
	require.Regexp(t, `account exists:\s+false`, out)

	verify.Token = "nope"
	require.Regexp(t, `status:\s+not_found`, run(verify))

	// 3. List.
	list := base
	list.Command = CommandList
	list.CourseID = courseID
	out = run(list)
	require.Contains(t, out, "alice@example.com")
	require.Contains(t, out, "pending")
	require.Contains(t, out, m1[1])

	// 4. Unknown course.
	create.CourseID = "missing"
	require.ErrorIs(t, Run(ctx, create, nil, nil), service.ErrCourseNotFound)
}

func TestRunVerifyRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/invites/verify" || r.URL.Query().Get("token") != "tok" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"already_used","email":"alice@example.com","course_title":"Intro to Go","account_exists":true}`))
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	err := Run(context.Background(), Config{Command: CommandVerify, Token: "tok", Remote: srv.URL}, &out, nil)
	require.NoError(t, err)
	require.Regexp(t, `status:\s+already_used`, out.String())
	require.Regexp(t, `account exists:\s+true`, out.String())
}

// seedCourse creates a teacher and a course in the database at cfg.
func seedCourse(t *testing.T, cfg Config) string {
	t.Helper()
	ctx := context.Background()

	cryptox.SetPepperPath(cfg.PepperFile)
	st, err := sqlite.NewStore(cfg.DatabaseFile)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.ApplyMigrations())

	users := &service.UserService{Store: st, TeacherSignupToken: "staff"}
	teacher, err := users.Register(ctx, service.RegisterParams{
		Email:       "grace@example.edu",
		Name:        "Grace",
		Password:    "correct horse battery",
		Role:        domain.RoleTeacher,
		SignupToken: "staff",
	})
	require.NoError(t, err)

	course, err := (&service.CourseService{Store: st}).Create(ctx, service.CreateCourseParams{
		OwnerID: teacher.ID,
		Title:   "Intro to Go",
	})
	require.NoError(t, err)
	return course.ID
}
