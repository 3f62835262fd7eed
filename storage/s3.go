package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/otherview/key-weaver/interfaces"
)

// S3Store persists wallet records in Amazon S3 or a compatible object store.
// Records are public-safe, so a read-only public bucket works for fetches;
// writes require credentials.
type S3Store struct {
	client      *s3.S3
	writeClient *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Store creates an S3-backed wallet store. If accessKey and secretKey
// are provided the store has write access; otherwise it is effectively
// read-only against public buckets.
func NewS3Store(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Store, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if accessKey != "" {
		uri = fmt.Sprintf("s3://%s:***@%s/%s?region=%s", accessKey, bucketName, prefix, region)
	}
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	baseCfg := aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		baseCfg.Endpoint = aws.String(endpoint)
	}

	baseSess, err := session.NewSession(&baseCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	readClient := s3.New(baseSess)

	writeClient := readClient
	if accessKey != "" && secretKey != "" {
		writeCfg := baseCfg.Copy()
		writeCfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")

		writeSess, err := session.NewSession(writeCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS write session: %w", err)
		}
		writeClient = s3.New(writeSess)
	} else {
		log.Warn("No S3 credentials provided - wallet registration will fail unless the bucket is public writable")
	}

	return &S3Store{
		client:      readClient,
		writeClient: writeClient,
		bucketName:  bucketName,
		prefix:      strings.TrimSuffix(prefix, "/"),
		log:         log,
		locationURI: uri,
	}, nil
}

// StoreRecord uploads the record as a JSON object keyed by wallet address.
func (s *S3Store) StoreRecord(ctx context.Context, record *interfaces.WalletRecord) error {
	if err := interfaces.ValidateWalletAddress(record.Address); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode wallet record: %w", err)
	}

	start := time.Now()
	key := s.objectKey(record.Address)

	_, err = s.writeClient.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store wallet record in S3: %w", err)
	}

	s.log.Debug("Stored wallet record in S3",
		slog.String("address", record.Address),
		slog.String("bucket", s.bucketName),
		slog.String("key", key),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// FetchRecord downloads and decodes the record for an address.
func (s *S3Store) FetchRecord(ctx context.Context, address string) (*interfaces.WalletRecord, error) {
	if err := interfaces.ValidateWalletAddress(address); err != nil {
		return nil, err
	}

	start := time.Now()
	key := s.objectKey(address)

	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "404") {
			s.log.Debug("Wallet record not found in S3",
				slog.String("address", address),
				slog.String("bucket", s.bucketName),
				slog.Duration("duration", time.Since(start)))
			return nil, interfaces.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch wallet record from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	var record interfaces.WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode wallet record: %w", err)
	}
	return &record, nil
}

// LocationURI returns the s3:// URI with credentials masked.
func (s *S3Store) LocationURI() string {
	return s.locationURI
}

// Name returns the backend identifier.
func (s *S3Store) Name() string {
	return "s3"
}

func (s *S3Store) objectKey(address string) string {
	return path.Join(s.prefix, "wallets", address+".json")
}
