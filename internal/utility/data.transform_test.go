package utility

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseTransformTag(t *testing.T) {
	config, err := ParseTransformTag("str_objectid")
	require.NoError(t, err)
	assert.Equal(t, "str_objectid", config.Type)
	assert.False(t, config.Optional)

	config, err = ParseTransformTag("str_objectid, optional")
	require.NoError(t, err)
	assert.Equal(t, "str_objectid", config.Type)
	assert.True(t, config.Optional)
}

func TestTransformFieldValue_StrObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	targetType := reflect.TypeOf(primitive.ObjectID{})

	got, err := TransformFieldValue(id.Hex(), &TransformConfig{Type: "str_objectid"}, targetType)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = TransformFieldValue("khong-phai-hex", &TransformConfig{Type: "str_objectid"}, targetType)
	assert.Error(t, err)
}

func TestTransformFieldValue_GiaTriRong(t *testing.T) {
	targetType := reflect.TypeOf(primitive.ObjectID{})

	// Optional: giá trị rỗng giữ nguyên zero value của model
	got, err := TransformFieldValue("", &TransformConfig{Type: "str_objectid", Optional: true}, targetType)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = TransformFieldValue(nil, &TransformConfig{Type: "str_objectid", Optional: true}, targetType)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Không optional thì giá trị rỗng là lỗi
	_, err = TransformFieldValue("", &TransformConfig{Type: "str_objectid"}, targetType)
	assert.Error(t, err)
}
