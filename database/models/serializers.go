package models

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/lightningnetwork/lnd/lntypes"
	"gorm.io/gorm/schema"
)

// HashSerializer handles serialization/deserialization of *lntypes.Hash
// columns, stored as hex strings.
type HashSerializer struct{}

// Scan implements serializer interface
func (HashSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	if dbValue == nil {
		return nil
	}

	var hashStr string
	switch v := dbValue.(type) {
	case string:
		hashStr = v
	case []byte:
		hashStr = string(v)
	default:
		return fmt.Errorf("failed to cast hash value: %v", dbValue)
	}

	hashPointer := dst.Elem().FieldByName(field.Name)
	if hashStr == "" {
		hashPointer.Set(reflect.Zero(field.FieldType))

		return nil
	}

	hash, err := lntypes.MakeHashFromStr(hashStr)
	if err != nil {
		return fmt.Errorf("failed to parse hash: %w", err)
	}

	hashPointer.Set(reflect.ValueOf(&hash))

	return nil
}

// Value implements serializer interface
func (HashSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	if fieldValue == nil {
		return nil, nil
	}

	hash, ok := fieldValue.(*lntypes.Hash)
	if !ok {
		return nil, errors.New("invalid hash value: not a *lntypes.Hash")
	}

	if hash == nil {
		return nil, nil
	}

	return hash.String(), nil
}

// PreimageSerializer handles serialization/deserialization of
// *lntypes.Preimage columns, stored as hex strings.
type PreimageSerializer struct{}

// Scan implements serializer interface
func (PreimageSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	if dbValue == nil {
		return nil
	}

	var preimageStr string
	switch v := dbValue.(type) {
	case string:
		preimageStr = v
	case []byte:
		preimageStr = string(v)
	default:
		return fmt.Errorf("failed to cast preimage value: %v", dbValue)
	}

	preimagePointer := dst.Elem().FieldByName(field.Name)
	if preimageStr == "" {
		preimagePointer.Set(reflect.Zero(field.FieldType))

		return nil
	}

	preimage, err := lntypes.MakePreimageFromStr(preimageStr)
	if err != nil {
		return fmt.Errorf("failed to parse preimage: %w", err)
	}

	preimagePointer.Set(reflect.ValueOf(&preimage))

	return nil
}

// Value implements serializer interface
func (PreimageSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	if fieldValue == nil {
		return nil, nil
	}

	preimage, ok := fieldValue.(*lntypes.Preimage)
	if !ok {
		return nil, errors.New("invalid preimage value: not a *lntypes.Preimage")
	}

	if preimage == nil {
		return nil, nil
	}

	return preimage.String(), nil
}

func RegisterSerializers() {
	schema.RegisterSerializer("hash", HashSerializer{})
	schema.RegisterSerializer("preimage", PreimageSerializer{})
}
