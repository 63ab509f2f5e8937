package main

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/services/core/bookings"
	"medibook-service/internal/pkg/constvars"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migration",
		Short: "Manage the booking collection schema",
	}
	rootCmd.PersistentFlags().Duration("timeout", time.Minute, "time allowed for the whole command")

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// upCmd creates the booking indexes, including the partial unique index that
// keeps one active booking per doctor slot.
func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create missing booking indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMongo(cmd, func(ctx context.Context, log *logrus.Logger, client *mongo.Client, dbName string) error {
				bookingRepository := bookings.NewBookingMongoRepository(client, dbName)
				err := bookingRepository.EnsureIndexes(ctx)
				if err != nil {
					return err
				}

				for _, model := range bookings.BookingIndexModels() {
					name := ""
					if model.Options != nil && model.Options.Name != nil {
						name = *model.Options.Name
					}
					log.WithFields(logrus.Fields{
						"database":   dbName,
						"collection": constvars.MongoCollectionBookings,
						"index":      name,
					}).Info("Index ensured")
				}
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List the indexes present on the booking collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMongo(cmd, func(ctx context.Context, log *logrus.Logger, client *mongo.Client, dbName string) error {
				cursor, err := client.Database(dbName).Collection(constvars.MongoCollectionBookings).Indexes().List(ctx)
				if err != nil {
					return err
				}

				var indexes []bson.M
				err = cursor.All(ctx, &indexes)
				if err != nil {
					return err
				}

				for _, index := range indexes {
					log.WithFields(logrus.Fields{
						"collection": constvars.MongoCollectionBookings,
						"index":      index["name"],
						"key":        index["key"],
						"unique":     index["unique"],
					}).Info("Index present")
				}
				return nil
			})
		},
	}
}

func withMongo(cmd *cobra.Command, fn func(ctx context.Context, log *logrus.Logger, client *mongo.Client, dbName string) error) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(driverConfig, internalConfig)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := database.NewMongoDB(ctx, driverConfig)
	if err != nil {
		log.Errorf("Error connecting to MongoDB: %v", err)
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warnf("Error disconnecting MongoDB: %v", err)
		}
	}()

	err = fn(ctx, log, client, driverConfig.MongoDB.DbName)
	if err != nil {
		log.Errorf("Migration command failed: %v", err)
	}
	return err
}
