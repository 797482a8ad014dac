package supabase

import (
	"bytes"
	"fmt"

	storage "github.com/supabase-community/storage-go"
	"studkits-backend/internal/tracking"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadStageImage stores an operator-supplied photo for one stage (e.g. the
// circuit-design shot) and returns its public URL.
func (s *StorageClient) UploadStageImage(projectID string, stageKey tracking.StageKey, filename, contentType string, data []byte) (string, error) {
	storagePath := fmt.Sprintf("projects/%s/stages/%s/%s", projectID, stageKey, filename)

	if contentType == "" {
		contentType = "image/jpeg"
	}
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload stage image: %w", err)
	}

	return s.PublicURL(storagePath), nil
}

func (s *StorageClient) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

// DeleteProjectImages removes every stored image under a project's prefix.
// Called when an admin deletes the project itself.
func (s *StorageClient) DeleteProjectImages(projectID string) error {
	prefix := fmt.Sprintf("projects/%s/", projectID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list stage images: %w", err)
	}

	if len(files) > 0 {
		paths := make([]string, len(files))
		for i, file := range files {
			paths[i] = file.Name
		}
		if _, err := s.client.RemoveFile(s.bucket, paths); err != nil {
			return fmt.Errorf("failed to delete stage images: %w", err)
		}
	}

	return nil
}
