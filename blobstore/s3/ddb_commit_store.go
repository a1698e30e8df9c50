package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/mdadm/blobstore"
)

// DDBCommitStore wraps a BlobStore and keeps the CURRENT pointer in DynamoDB.
//
// S3 has no compare-and-swap, so two writers saving snapshots at once could
// both overwrite CURRENT. The commit store instead appends a new version row
// with a conditional write; the loser gets ErrConcurrentModification. All
// other blobs go to the wrapped store.
//
// Table schema:
//   - Partition key: base_uri (string) - identifies the array, e.g. "s3://bucket/prefix/"
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name mdadm-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	store     blobstore.BlobStore
	ddbClient DDBClient
	tableName string
	baseURI   string
}

var _ blobstore.BlobStore = (*DDBCommitStore)(nil)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

var (
	// ErrConcurrentModification is returned when another writer committed the same version first.
	ErrConcurrentModification = errors.New("concurrent modification detected")
	// ErrCurrentImmutable is returned when deleting CURRENT through a commit store.
	ErrCurrentImmutable = errors.New("CURRENT is managed by the commit log and cannot be deleted")
)

// NewDDBCommitStore creates a commit store over store.
// baseURI partitions the commit log, so arrays sharing a table stay isolated.
func NewDDBCommitStore(store blobstore.BlobStore, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		store:     store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// OpenCommitStore creates an S3 store and a DynamoDB commit log from the
// default AWS config chain. The base URI is "s3://<bucket>/<prefix>".
func OpenCommitStore(ctx context.Context, bucket, tableName string, optFns ...Option) (*DDBCommitStore, error) {
	opts := newOptions(optFns)

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	store := newStore(newClient(cfg, opts), bucket, opts)
	baseURI := "s3://" + bucket + "/" + store.Prefix()

	return NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), tableName, baseURI), nil
}

// Open opens a blob. CURRENT is served from the latest commit.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != blobstore.CurrentName {
		return s.store.Open(ctx, name)
	}

	version, manifestPath, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	return blobstore.BytesBlob(manifestPath), nil
}

// Put writes a blob. CURRENT becomes a conditional commit of the next version.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name == blobstore.CurrentName {
		return s.commit(ctx, string(data))
	}
	return s.store.Put(ctx, name, data)
}

// Delete deletes a blob.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	if name == blobstore.CurrentName {
		return ErrCurrentImmutable
	}
	return s.store.Delete(ctx, name)
}

// List lists blobs with prefix, including CURRENT once a version is committed.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(blobstore.CurrentName, prefix) {
		return names, nil
	}

	version, _, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	if version > 0 {
		names = append(names, blobstore.CurrentName)
		sort.Strings(names)
	}
	return names, nil
}

// Version returns the latest committed version, 0 if nothing was committed.
func (s *DDBCommitStore) Version(ctx context.Context) (uint64, error) {
	version, _, err := s.latest(ctx)
	return version, err
}

// latest queries DynamoDB for the latest committed version.
func (s *DDBCommitStore) latest(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	pathAttr, ok := item["manifest_path"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid manifest_path attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, pathAttr.Value, nil
}

// commit atomically records manifestPath as the next version.
func (s *DDBCommitStore) commit(ctx context.Context, manifestPath string) error {
	current, _, err := s.latest(ctx)
	if err != nil {
		return err
	}

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: s.baseURI},
			"version":       &types.AttributeValueMemberN{Value: strconv.FormatUint(current+1, 10)},
			"manifest_path": &types.AttributeValueMemberS{Value: manifestPath},
			"committed_at":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		// Only succeed if this version doesn't exist yet
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return nil
}
