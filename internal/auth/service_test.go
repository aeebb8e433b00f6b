package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"perfumery/internal/apperr"
	"perfumery/internal/models"
	"perfumery/internal/store"
)

const testEmail = "ops@example.com"

type captureDispatcher struct {
	codes []string
}

func (d *captureDispatcher) Dispatch(_ context.Context, _ string, code string) error {
	d.codes = append(d.codes, code)
	return nil
}

func (d *captureDispatcher) last() string {
	return d.codes[len(d.codes)-1]
}

type harness struct {
	svc   *Service
	mail  *captureDispatcher
	clock time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem := store.NewMemory()
	_, err := mem.InsertAdmin(context.Background(), models.Admin{Email: testEmail, Username: "ops"})
	require.NoError(t, err)

	h := &harness{mail: &captureDispatcher{}, clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	h.svc = NewService(mem, h.mail, Options{Secret: "test-secret", BcryptCost: bcrypt.MinCost})
	h.svc.now = func() time.Time { return h.clock }

	n := 0
	h.svc.generate = func() (string, error) {
		n++
		return fmt.Sprintf("%06d", 111110+n), nil
	}
	return h
}

func TestRequestCodeUnknownAdmin(t *testing.T) {
	h := newHarness(t)
	err := h.svc.RequestCode(context.Background(), "nobody@example.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, h.mail.codes)

	err = h.svc.RequestCode(context.Background(), "  ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestVerifyIssuesAdminToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, " OPS@example.com "))

	token, err := h.svc.Verify(ctx, testEmail, h.mail.last())
	require.NoError(t, err)

	claims, err := h.svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, testEmail, claims.Email)
	assert.NotEmpty(t, claims.Subject)
}

func TestCodeIsSingleUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, testEmail))
	code := h.mail.last()

	_, err := h.svc.Verify(ctx, testEmail, code)
	require.NoError(t, err)

	_, err = h.svc.Verify(ctx, testEmail, code)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestReissueInvalidatesEarlierCode(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, testEmail))
	first := h.mail.last()
	require.NoError(t, h.svc.RequestCode(ctx, testEmail))
	second := h.mail.last()
	require.NotEqual(t, first, second)

	_, err := h.svc.Verify(ctx, testEmail, first)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = h.svc.Verify(ctx, testEmail, second)
	assert.NoError(t, err)
}

func TestExpiredCodeIsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, testEmail))

	h.clock = h.clock.Add(DefaultCodeTTL)
	_, err := h.svc.Verify(ctx, testEmail, h.mail.last())
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestVerifyInputErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Verify(ctx, testEmail, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = h.svc.Verify(ctx, testEmail, "123456")
	assert.True(t, apperr.Is(err, apperr.KindAuth), "no outstanding code")

	_, err = h.svc.Verify(ctx, "nobody@example.com", "123456")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	require.NoError(t, h.svc.RequestCode(ctx, testEmail))
	_, err = h.svc.Verify(ctx, testEmail, "000000")
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestParseTokenRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, testEmail))
	token, err := h.svc.Verify(ctx, testEmail, h.mail.last())
	require.NoError(t, err)

	h.clock = h.clock.Add(DefaultSessionTTL + time.Second)
	_, err = h.svc.ParseToken(token)
	assert.True(t, apperr.Is(err, apperr.KindAuth), "expired session")

	_, err = h.svc.ParseToken("not-a-token")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	customer := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "x",
		"role": "customer",
		"exp":  h.clock.Add(time.Hour).Unix(),
	})
	signed, err := customer.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = h.svc.ParseToken(signed)
	assert.True(t, apperr.Is(err, apperr.KindAuth), "wrong role")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "x",
		"role": RoleAdmin,
		"exp":  h.clock.Add(time.Hour).Unix(),
	})
	signed, err = forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = h.svc.ParseToken(signed)
	assert.True(t, apperr.Is(err, apperr.KindAuth), "wrong secret")
}

func TestGenerateCodeIsSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, code)
	}
}
