package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avelin/estate-notify/internal/core/domain"
	"github.com/avelin/estate-notify/internal/core/services"
)

func TestPolicyResolver_Resolve(t *testing.T) {
	r := services.NewPolicyResolver()

	t.Run("lead alert fires every side effect", func(t *testing.T) {
		p := r.Resolve(domain.TypeLeadAlert)

		assert.True(t, p.ShowToast)
		assert.True(t, p.PlaySound)
		assert.True(t, p.ShowOSNotification)
	})

	t.Run("unknown type falls back to default policy", func(t *testing.T) {
		p := r.Resolve("foo_bar")

		assert.True(t, p.ShowToast)
		assert.Equal(t, domain.VariantDefault, p.ToastVariant)
		assert.Equal(t, 4*time.Second, p.ToastDuration)
		assert.False(t, p.PlaySound)
		assert.False(t, p.ShowOSNotification)
	})

	t.Run("new message notifies natively", func(t *testing.T) {
		p := r.Resolve(domain.TypeNewMessage)

		assert.True(t, p.ShowToast)
		assert.True(t, p.PlaySound)
		assert.True(t, p.ShowOSNotification)
		assert.Equal(t, domain.VariantInfo, p.ToastVariant)
	})

	t.Run("vendor rejection stays quiet", func(t *testing.T) {
		p := r.Resolve(domain.TypeVendorRejection)

		assert.True(t, p.ShowToast)
		assert.Equal(t, domain.VariantWarning, p.ToastVariant)
		assert.False(t, p.PlaySound)
		assert.False(t, p.ShowOSNotification)
	})
}
