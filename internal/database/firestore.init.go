package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/CheckMateSG/users-product/config"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// GetInstance khởi tạo và trả về một *firestore.Client qua Firebase Admin SDK.
// Client được truyền tường minh vào các repository, không giữ trong biến global.
//
// Thứ tự resolve credentials:
// 1. FIRESTORE_EMULATOR_HOST được set -> kết nối thẳng emulator, không cần credentials
// 2. FIREBASE_CREDENTIALS_PATH được set -> dùng service account JSON
// 3. Còn lại -> Application Default Credentials
func GetInstance(c *config.Configuration) (*firestore.Client, error) {
	if c.FirebaseProjectID == "" {
		return nil, fmt.Errorf("firebase project ID is empty")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conf := &firebase.Config{ProjectID: c.FirebaseProjectID}

	var opts []option.ClientOption
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" && c.FirebaseCredentialsPath != "" {
		if _, err := os.Stat(c.FirebaseCredentialsPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials file not found: %s", c.FirebaseCredentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(c.FirebaseCredentialsPath))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
	}

	logger.GetAppLogger().WithField("projectId", c.FirebaseProjectID).Info("Successfully connected to Firestore")
	return client, nil
}

// CloseInstance đóng kết nối Firestore client
func CloseInstance(client *firestore.Client) error {
	if err := client.Close(); err != nil {
		logger.GetAppLogger().WithError(err).Error("Failed to close Firestore client")
		return err
	}
	logger.GetAppLogger().Info("Successfully disconnected from Firestore")
	return nil
}
