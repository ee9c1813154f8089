package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/aussiebroadwan/lectern/internal/auth/notify"
	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/idx"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer      = "https://lectern.test"
	teacherPassword = "correct horse battery"
)

var epoch = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu         sync.Mutex
	dispatched []notify.Message
	delivered  []notify.Message
	fail       bool
}

func (n *recordingNotifier) Dispatch(_ context.Context, m notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dispatched = append(n.dispatched, m)
}

func (n *recordingNotifier) Deliver(_ context.Context, m notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, m)
	return !n.fail
}

func (n *recordingNotifier) Dispatched() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.dispatched...)
}

type env struct {
	store    store.Store
	clock    *testClock
	notifier *recordingNotifier

	invites  *InviteService
	auth     *Authenticator
	prov     *AccountProvisioner
	courses  *CourseService
	users    *UserService
	sessions *SessionService
	keys     *jwtx.KeyManager

	teacher domain.User
	course  domain.Course
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return newEnvWithStore(t, s)
}

// newEnvWithStore wires the services on top of st, which may decorate the
// sqlite store.
func newEnvWithStore(t *testing.T, st store.Store) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{
		store:    st,
		clock:    &testClock{t: epoch},
		notifier: &recordingNotifier{},
	}
	clock := Clock(e.clock.Now)

	e.prov = &AccountProvisioner{Store: st, Clock: clock}
	e.auth = &Authenticator{Store: st, Clock: clock}
	e.courses = &CourseService{Store: st, Clock: clock}
	e.users = &UserService{Store: st, Clock: clock, TeacherSignupToken: "staff-only"}
	e.invites = &InviteService{
		Store:       st,
		Notifier:    e.notifier,
		Provisioner: e.prov,
		PublicURL:   "https://lectern.test/",
		Clock:       clock,
	}

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)
	e.keys = keys
	e.sessions = &SessionService{
		Authenticator: e.auth,
		Invites:       e.invites,
		KeyManager:    keys,
		Issuer:        testIssuer,
		TTL:           time.Hour,
		// Tokens are verified against the wall clock.
		Clock: nil,
	}

	e.teacher, err = e.users.Register(ctx, RegisterParams{
		Email:       "grace@example.edu",
		Name:        "Grace",
		Password:    teacherPassword,
		Role:        domain.RoleTeacher,
		SignupToken: "staff-only",
	})
	require.NoError(t, err)

	e.course, err = e.courses.Create(ctx, CreateCourseParams{
		OwnerID:     e.teacher.ID,
		Title:       "Compilers",
		Description: "Parsing to codegen",
	})
	require.NoError(t, err)

	return e
}

// issue creates an invite and returns it with its raw token.
func (e *env) issue(t *testing.T, email string) (IssuedInvite, string) {
	t.Helper()
	out, err := e.invites.Issue(context.Background(), IssueInviteParams{
		Email:    email,
		CourseID: e.course.ID,
		IssuerID: e.teacher.ID,
	})
	require.NoError(t, err)
	return out, tokenFromURL(t, out.AcceptanceURL)
}

func (e *env) countInvites(t *testing.T) int {
	t.Helper()
	list, err := e.store.Invites().ListInvitesByCourse(context.Background(), e.course.ID)
	require.NoError(t, err)
	return len(list)
}

func (e *env) newStudent(t *testing.T, email, password string) domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterParams{Email: email, Name: "Student", Password: password})
	require.NoError(t, err)
	return u
}

// racingStore decorates a store so tests can inject a competing write at
// a precise point, inside or outside transactions.
type racingStore struct {
	store.Store
	wrapInvites func(store.Invites) store.Invites
	wrapUsers   func(store.Users) store.Users
}

func (r *racingStore) Invites() store.Invites { return r.invites(r.Store.Invites()) }
func (r *racingStore) Users() store.Users     { return r.users(r.Store.Users()) }

func (r *racingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return r.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&racingTx{innerTx: tx, parent: r})
	})
}

func (r *racingStore) invites(in store.Invites) store.Invites {
	if r.wrapInvites == nil {
		return in
	}
	return r.wrapInvites(in)
}

func (r *racingStore) users(in store.Users) store.Users {
	if r.wrapUsers == nil {
		return in
	}
	return r.wrapUsers(in)
}

// innerTx names the embedded field so it does not shadow the promoted Tx method.
type innerTx = store.Tx

type racingTx struct {
	innerTx
	parent *racingStore
}

func (t *racingTx) Invites() store.Invites { return t.parent.invites(t.innerTx.Invites()) }
func (t *racingTx) Users() store.Users     { return t.parent.users(t.innerTx.Users()) }

func newID() string { return idx.New().String() }
