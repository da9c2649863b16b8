package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusHelpers(t *testing.T) {
	var absent *Status
	require.False(t, absent.IsActive())
	require.Empty(t, absent.KnownProduct())

	s := &Status{SubscriptionStatus: "ACTIVE", ProductID: ProductNotSet}
	require.True(t, s.IsActive())
	require.Empty(t, s.KnownProduct())

	s = &Status{SubscriptionStatus: "EXPIRED", ProductID: "basic"}
	require.False(t, s.IsActive())
	require.Equal(t, "basic", s.KnownProduct())
}

func TestViewCanLogout(t *testing.T) {
	require.False(t, View{Kind: ViewRedirecting}.CanLogout())
	require.False(t, View{Kind: ViewLoading}.CanLogout())
	for _, k := range []ViewKind{ViewPending, ViewActive, ViewPaymentForm} {
		require.True(t, View{Kind: k}.CanLogout(), k.String())
	}
}

func TestUploadDraftHasFile(t *testing.T) {
	require.False(t, UploadDraft{}.HasFile())
	require.False(t, UploadDraft{File: &ProofFile{Name: "x.png"}}.HasFile())
	require.True(t, UploadDraft{File: &ProofFile{Data: []byte{1}}}.HasFile())
}
