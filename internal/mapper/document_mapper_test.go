package mapper

import (
	"testing"

	"ncip-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNotificationMetadataKeepsNumericTypes(t *testing.T) {
	var stored datatypes.JSONMap
	require.NoError(t, stored.Scan([]byte(`{"missing":2,"ratio":0.5,"label":"x","nested":{"days":3},"list":[1,"a",{"n":4}]}`)))

	e := NewNotificationMapper().ToEntity(&model.NotificationQueue{Metadata: stored})

	assert.Equal(t, int64(2), e.Metadata["missing"])
	assert.Equal(t, 0.5, e.Metadata["ratio"])
	assert.Equal(t, "x", e.Metadata["label"])
	assert.Equal(t, map[string]interface{}{"days": int64(3)}, e.Metadata["nested"])
	assert.Equal(t, []interface{}{int64(1), "a", map[string]interface{}{"n": int64(4)}}, e.Metadata["list"])
}

func TestNotificationMetadataNil(t *testing.T) {
	e := NewNotificationMapper().ToEntity(&model.NotificationQueue{})
	assert.Nil(t, e.Metadata)
}
