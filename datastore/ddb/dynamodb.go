/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/registry"
	"github.com/suparena/portalnetwork/storagemodels"
)

// EntityType tags document items so they can share a single table with other entities.
const EntityType = "PortalDocument"

// Client is the subset of the DynamoDB API used by DocumentStore. *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// documentItem is the stored shape of one document.
type documentItem struct {
	Document   string         `dynamodbav:"Document"`
	EntityType string         `dynamodbav:"EntityType"`
	SavedAt    string         `dynamodbav:"SavedAt"`
	Body       map[string]any `dynamodbav:"Body"`
}

func init() {
	registry.RegisterIndexMap[documentItem](map[string]string{
		"PK": "DOCUMENT#{Document}",
		"SK": "DOCUMENT#{Document}",
	})
}

// DocumentStore implements datastore.DocumentStore by keeping the whole document
// in a single DynamoDB item.
type DocumentStore struct {
	client    Client
	tableName string
	document  string
	now       func() time.Time
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	// Convert keysInput to a map of attribute values
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// binary, null, sets, lists and maps have no key rendering
				return ""
			}
		})
		res[fieldName] = expanded
	}

	return res, nil
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It requires non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg)

	slog.Debug("dynamodb client initialized", "region", awsRegion)
	return client, nil
}

// NewDocumentStore constructs a store for the named document in tableName.
func NewDocumentStore(client Client, tableName, document string) *DocumentStore {
	return &DocumentStore{
		client:    client,
		tableName: tableName,
		document:  document,
		now:       time.Now,
	}
}

// NewDynamodbDocumentStore creates a client from static credentials and wraps it in a DocumentStore.
func NewDynamodbDocumentStore(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, tableName, document string) (*DocumentStore, error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewDocumentStore(client, tableName, document), nil
}

func (d *DocumentStore) key() (map[string]types.AttributeValue, error) {
	indexMap, ok := registry.GetIndexMap[documentItem]()
	if !ok {
		return nil, fmt.Errorf("no index map found for document items")
	}
	expanded, err := expandMacros(indexMap, documentItem{Document: d.document})
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expanded)
}

// Load fetches the document item with a consistent read.
func (d *DocumentStore) Load(ctx context.Context) (*storagemodels.Section, error) {
	key, err := d.key()
	if err != nil {
		return nil, fmt.Errorf("ddb: failed to build key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ddb: GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("ddb: document %q: %w", d.document, errors.ErrNoPriorData)
	}

	var item documentItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("ddb: failed to unmarshal document %q: %w", d.document, err)
	}
	return storagemodels.FromMap(item.Body), nil
}

// Save replaces the document item.
func (d *DocumentStore) Save(ctx context.Context, doc *storagemodels.Section) error {
	if doc == nil {
		return errors.NewValidationError("doc", "document is nil")
	}
	indexMap, ok := registry.GetIndexMap[documentItem]()
	if !ok {
		return fmt.Errorf("ddb: no index map found for document items")
	}

	item := documentItem{
		Document:   d.document,
		EntityType: EntityType,
		SavedAt:    strfmt.DateTime(d.now().UTC()).String(),
		Body:       doc.ToMap(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("ddb: failed to marshal document %q: %w", d.document, err)
	}

	expanded, err := expandMacros(indexMap, item)
	if err != nil {
		return err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("ddb: PutItem failed: %w", err)
	}
	return nil
}

// Delete removes the document item. Deleting a missing document is not an error.
func (d *DocumentStore) Delete(ctx context.Context) error {
	key, err := d.key()
	if err != nil {
		return fmt.Errorf("ddb: failed to build key: %w", err)
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("ddb: failed to delete document %q: %w", d.document, err)
	}
	return nil
}
