package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamoTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of *dynamodb.Client the profile store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

const connectionProjection = "id, linkedin_token, linkedin_profile_id, linkedin_connected, linkedin_token_expires_at, linkedin_updated_at"

type DynamoDbProfileStore struct {
	Client    DynamoAPI
	TableName string
	now       func() time.Time
}

func NewProfileStore(dbClient DynamoAPI, tableName string) *DynamoDbProfileStore {
	return &DynamoDbProfileStore{
		Client:    dbClient,
		TableName: tableName,
		now:       time.Now,
	}
}

func (s *DynamoDbProfileStore) IsReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := s.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.TableName),
	})

	return err
}

func (s *DynamoDbProfileStore) Name() string {
	return "ProfileStore[" + s.TableName + "]"
}

func (s *DynamoDbProfileStore) key(userID string) map[string]dynamoTypes.AttributeValue {
	return map[string]dynamoTypes.AttributeValue{
		"id": &dynamoTypes.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoDbProfileStore) UserExists(ctx context.Context, userID string) (bool, error) {
	res, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.TableName),
		Key:                  s.key(userID),
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return false, fmt.Errorf("get profile: %w", err)
	}
	return res.Item != nil, nil
}

func (s *DynamoDbProfileStore) SaveConnection(ctx context.Context, rec types.ConnectionRecord) error {
	if rec.Connected && !rec.Complete() {
		return apperror.ErrIncompleteRecord
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}

	values := map[string]any{
		":token":     rec.ExternalToken,
		":pid":       rec.ExternalProfileID,
		":connected": rec.Connected,
		":exp":       rec.TokenExpiresAt.UTC(),
		":updated":   rec.UpdatedAt.UTC(),
	}
	attrs, err := attributevalue.MarshalMap(values)
	if err != nil {
		return fmt.Errorf("marshal connection: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key:       s.key(rec.UserID),
		UpdateExpression: aws.String("SET linkedin_token = :token, linkedin_profile_id = :pid, " +
			"linkedin_connected = :connected, linkedin_token_expires_at = :exp, linkedin_updated_at = :updated"),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: attrs,
	})
	return s.mapWriteErr(err)
}

func (s *DynamoDbProfileStore) GetConnection(ctx context.Context, userID string) (*types.ConnectionRecord, error) {
	res, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.TableName),
		Key:                  s.key(userID),
		ProjectionExpression: aws.String(connectionProjection),
	})
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	if res.Item == nil {
		return nil, apperror.ErrUserNotFound
	}
	if _, ok := res.Item["linkedin_connected"]; !ok {
		return nil, apperror.ErrConnectionNotFound
	}

	var rec types.ConnectionRecord
	if err := attributevalue.UnmarshalMap(res.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal connection: %w", err)
	}
	return &rec, nil
}

func (s *DynamoDbProfileStore) Disconnect(ctx context.Context, userID string) error {
	attrs, err := attributevalue.MarshalMap(map[string]any{
		":connected": false,
		":updated":   s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal disconnect: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key:       s.key(userID),
		UpdateExpression: aws.String("SET linkedin_connected = :connected, linkedin_updated_at = :updated " +
			"REMOVE linkedin_token, linkedin_profile_id, linkedin_token_expires_at"),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: attrs,
	})
	return s.mapWriteErr(err)
}

func (s *DynamoDbProfileStore) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var ccf *dynamoTypes.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return apperror.ErrUserNotFound
	}
	return fmt.Errorf("update profile: %w", err)
}
