package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/store"
	"github.com/Yulian302/lfusys-services-connections/test/mocks"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamoTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDynamoSaveConnection_ConditionalUpdate(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	expires := time.Now().Add(time.Hour)

	api.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		id := in.Key["id"].(*dynamoTypes.AttributeValueMemberS).Value
		token := in.ExpressionAttributeValues[":token"].(*dynamoTypes.AttributeValueMemberS).Value
		pid := in.ExpressionAttributeValues[":pid"].(*dynamoTypes.AttributeValueMemberS).Value
		connected := in.ExpressionAttributeValues[":connected"].(*dynamoTypes.AttributeValueMemberBOOL).Value
		return *in.TableName == "profiles" &&
			*in.ConditionExpression == "attribute_exists(id)" &&
			id == "user-1" && token == "T" && pid == "ext-123" && connected
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	err := s.SaveConnection(context.Background(), types.ConnectionRecord{
		UserID:            "user-1",
		ExternalToken:     "T",
		ExternalProfileID: "ext-123",
		Connected:         true,
		TokenExpiresAt:    expires,
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestDynamoSaveConnection_UnknownUser(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("UpdateItem", mock.Anything, mock.Anything).
		Return(nil, &dynamoTypes.ConditionalCheckFailedException{Message: new(string)})

	err := s.SaveConnection(context.Background(), types.ConnectionRecord{
		UserID: "ghost", ExternalToken: "T", ExternalProfileID: "ext", Connected: true,
	})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestDynamoSaveConnection_RejectsIncomplete(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	err := s.SaveConnection(context.Background(), types.ConnectionRecord{
		UserID: "user-1", ExternalToken: "T", Connected: true,
	})
	assert.ErrorIs(t, err, apperror.ErrIncompleteRecord)
	api.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestDynamoSaveConnection_StoreError(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	err := s.SaveConnection(context.Background(), types.ConnectionRecord{
		UserID: "user-1", ExternalToken: "T", ExternalProfileID: "ext", Connected: true,
	})
	assert.ErrorContains(t, err, "throttled")
}

func TestDynamoUserExists(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return in.Key["id"].(*dynamoTypes.AttributeValueMemberS).Value == "user-1"
	})).Return(&dynamodb.GetItemOutput{Item: map[string]dynamoTypes.AttributeValue{
		"id": &dynamoTypes.AttributeValueMemberS{Value: "user-1"},
	}}, nil)
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	ok, err := s.UserExists(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UserExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDynamoGetConnection(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	expires := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: map[string]dynamoTypes.AttributeValue{
		"id":                        &dynamoTypes.AttributeValueMemberS{Value: "user-1"},
		"linkedin_token":            &dynamoTypes.AttributeValueMemberS{Value: "T"},
		"linkedin_profile_id":       &dynamoTypes.AttributeValueMemberS{Value: "ext-123"},
		"linkedin_connected":        &dynamoTypes.AttributeValueMemberBOOL{Value: true},
		"linkedin_token_expires_at": &dynamoTypes.AttributeValueMemberS{Value: expires.Format(time.RFC3339Nano)},
	}}, nil)

	rec, err := s.GetConnection(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "ext-123", rec.ExternalProfileID)
	assert.True(t, rec.Connected)
	assert.True(t, expires.Equal(rec.TokenExpiresAt))
}

func TestDynamoGetConnection_NeverConnected(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: map[string]dynamoTypes.AttributeValue{
		"id": &dynamoTypes.AttributeValueMemberS{Value: "user-1"},
	}}, nil)

	_, err := s.GetConnection(context.Background(), "user-1")
	assert.ErrorIs(t, err, apperror.ErrConnectionNotFound)
}

func TestDynamoDisconnect(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		connected := in.ExpressionAttributeValues[":connected"].(*dynamoTypes.AttributeValueMemberBOOL).Value
		return !connected
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	require.NoError(t, s.Disconnect(context.Background(), "user-1"))
	api.AssertExpectations(t)
}

func TestDynamoIsReady(t *testing.T) {
	api := &mocks.MockDynamoAPI{}
	s := store.NewProfileStore(api, "profiles")

	api.On("DescribeTable", mock.Anything, mock.Anything).Return(&dynamodb.DescribeTableOutput{}, nil)

	assert.NoError(t, s.IsReady(context.Background()))
	assert.Equal(t, "ProfileStore[profiles]", s.Name())
}
