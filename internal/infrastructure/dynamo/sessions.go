package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
)

// UserSessionRepo provides typed DynamoDB operations for the users table.
// One item per phone number; a re-login overwrites the whole item.
type UserSessionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserSessionRepo(client *dynamodb.Client, tableName string) *UserSessionRepo {
	return &UserSessionRepo{client: client, tableName: tableName}
}

func (r *UserSessionRepo) Put(ctx context.Context, s *domain.UserSession) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal user session: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UserSessionRepo) Get(ctx context.Context, phone string) (*domain.UserSession, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user session not found: %w", domain.ErrNotFound)
	}
	var s domain.UserSession
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
