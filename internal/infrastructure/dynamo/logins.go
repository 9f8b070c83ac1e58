package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
)

// LoginAttemptRepo manages transient login-attempt records.
// PK: phone. A second login-start for the same phone overwrites the first,
// invalidating the code it issued. Expired items are reaped by DynamoDB TTL.
type LoginAttemptRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLoginAttemptRepo(client *dynamodb.Client, tableName string) *LoginAttemptRepo {
	return &LoginAttemptRepo{client: client, tableName: tableName}
}

func (r *LoginAttemptRepo) Put(ctx context.Context, a *domain.LoginAttempt) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal login attempt: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *LoginAttemptRepo) Get(ctx context.Context, phone string) (*domain.LoginAttempt, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("login attempt not found: %w", domain.ErrNotFound)
	}
	var a domain.LoginAttempt
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *LoginAttemptRepo) Delete(ctx context.Context, phone string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone", phone),
	})
	return err
}
