// Package objectstore guarda os comprovantes das vendas no storage de objetos
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/infrastructure/objectstore/storageclient"
)

const listPageSize = 100

// ReceiptStore é o armazenamento de comprovantes usado pelos casos de uso
type ReceiptStore interface {
	// Upload grava o comprovante sem sobrescrever chaves existentes. Se o bucket
	// não existir, cria como público e tenta novamente uma única vez.
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// ResolvePublicURL retorna nil quando o storage não fornece URL para a chave
	ResolvePublicURL(key string) *string
	Delete(ctx context.Context, key string) error
	ListObjects(ctx context.Context) ([]storageclient.ObjectInfo, error)
}

// Observer recebe a telemetria das operações do storage
type Observer interface {
	RecordStorageOperation(operation string, duration time.Duration, err error)
	RecordUploadedBytes(size int)
	RecordBucketFallback(err error)
}

type receiptStore struct {
	client   storageclient.Client
	bucket   string
	observer Observer
}

func NewReceiptStore(client storageclient.Client, bucket string, observer Observer) ReceiptStore {
	if observer == nil {
		observer = noopObserver{}
	}

	return &receiptStore{
		client:   client,
		bucket:   bucket,
		observer: observer,
	}
}

func (s *receiptStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	err := s.upload(ctx, key, data, contentType)
	if err == nil {
		return nil
	}

	if storageclient.KindOf(err) != storageclient.KindBucketNotFound {
		return err
	}

	logrus.WithField("bucket", s.bucket).Warn("Bucket de comprovantes inexistente, tentando criar")

	// Mesmo se a criação falhar o reenvio acontece; o erro final é o do reenvio
	createErr := s.createBucket(ctx)
	s.observer.RecordBucketFallback(createErr)
	if createErr != nil {
		logrus.WithError(createErr).WithField("bucket", s.bucket).Error("Erro ao criar bucket de comprovantes")
	}

	if err := s.upload(ctx, key, data, contentType); err != nil {
		if createErr != nil {
			return fmt.Errorf("erro ao reenviar comprovante (criação do bucket falhou: %v): %w", createErr, err)
		}
		return fmt.Errorf("erro ao reenviar comprovante após criar bucket: %w", err)
	}

	return nil
}

func (s *receiptStore) upload(ctx context.Context, key string, data []byte, contentType string) error {
	start := time.Now()
	err := s.client.Upload(ctx, s.bucket, key, bytes.NewReader(data), contentType)
	s.observer.RecordStorageOperation("upload", time.Since(start), err)
	if err == nil {
		s.observer.RecordUploadedBytes(len(data))
	}
	return err
}

// createBucket trata bucket já existente como sucesso (outra requisição pode ter criado)
func (s *receiptStore) createBucket(ctx context.Context) error {
	start := time.Now()
	err := s.client.CreateBucket(ctx, s.bucket, true)
	s.observer.RecordStorageOperation("create_bucket", time.Since(start), err)

	if storageclient.KindOf(err) == storageclient.KindAlreadyExists {
		return nil
	}
	return err
}

func (s *receiptStore) ResolvePublicURL(key string) (resolved *string) {
	if key == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("key", key).Errorf("Erro ao resolver URL pública: %v", r)
			resolved = nil
		}
	}()

	url := s.client.PublicURL(s.bucket, key)
	if url == "" {
		return nil
	}
	return &url
}

func (s *receiptStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.client.Remove(ctx, s.bucket, []string{key})
	s.observer.RecordStorageOperation("delete", time.Since(start), err)
	return err
}

// ListObjects percorre todas as páginas do bucket. Bucket inexistente é uma lista vazia.
func (s *receiptStore) ListObjects(ctx context.Context) ([]storageclient.ObjectInfo, error) {
	start := time.Now()
	objects := make([]storageclient.ObjectInfo, 0)

	for offset := 0; ; offset += listPageSize {
		page, err := s.client.List(ctx, s.bucket, storageclient.ListParams{
			Limit:  listPageSize,
			Offset: offset,
		})
		if err != nil {
			if storageclient.KindOf(err) == storageclient.KindBucketNotFound {
				s.observer.RecordStorageOperation("list", time.Since(start), nil)
				return objects, nil
			}
			s.observer.RecordStorageOperation("list", time.Since(start), err)
			return nil, err
		}

		objects = append(objects, page...)
		if len(page) < listPageSize {
			break
		}
	}

	s.observer.RecordStorageOperation("list", time.Since(start), nil)
	return objects, nil
}

type noopObserver struct{}

func (noopObserver) RecordStorageOperation(string, time.Duration, error) {}
func (noopObserver) RecordUploadedBytes(int)                            {}
func (noopObserver) RecordBucketFallback(error)                         {}
