package gate

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanledger/internal/common"
)

type fakeValidator struct {
	err  error
	seen string
}

func (f *fakeValidator) Validate(_ context.Context, passcode string) error {
	f.seen = passcode
	return f.err
}

func TestLocalGate_AcceptsCorrectPasscode(t *testing.T) {
	salt := []byte("0123456789abcdef")
	hash := HashPasscode("secret", salt)

	g, err := NewLocal(hex.EncodeToString(hash), hex.EncodeToString(salt))
	require.NoError(t, err)

	require.NoError(t, g.Unlock(context.Background(), "secret"))
	assert.ErrorIs(t, g.Unlock(context.Background(), "wrong"), common.ErrUnauthorized)
}

func TestFixedGate(t *testing.T) {
	g := NewFixed("1234")
	require.NoError(t, g.Unlock(context.Background(), "1234"))
	assert.ErrorIs(t, g.Unlock(context.Background(), "4321"), common.ErrUnauthorized)
}

func TestNewLocal_RejectsBadHex(t *testing.T) {
	_, err := NewLocal("not-hex", "00")
	require.Error(t, err)

	_, err = NewLocal("00", "not-hex")
	require.Error(t, err)
}

func TestRemoteGate_DelegatesToValidator(t *testing.T) {
	v := &fakeValidator{}
	g := NewRemote(v)

	require.NoError(t, g.Unlock(context.Background(), "secret"))
	assert.Equal(t, "secret", v.seen)
}

func TestRemoteGate_PassesThroughFailures(t *testing.T) {
	v := &fakeValidator{err: common.ErrUnauthorized}
	g := NewRemote(v)
	assert.ErrorIs(t, g.Unlock(context.Background(), "wrong"), common.ErrUnauthorized)

	// infrastructure failures stay distinguishable from rejection
	v.err = common.ErrUnavailable
	err := g.Unlock(context.Background(), "secret")
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.False(t, errors.Is(err, common.ErrUnauthorized))
}
