package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RegistrationRepository implements application.RegistrationRepository using MongoDB.
type RegistrationRepository struct {
	collection *mongo.Collection
}

// NewRegistrationRepository は登録コレクションを束縛したリポジトリを生成する。
func NewRegistrationRepository(db *mongo.Database, collectionName string) *RegistrationRepository {
	return &RegistrationRepository{collection: db.Collection(collectionName)}
}

// Create はドメインの登録を Mongo ドキュメントへ変換し、1 件だけ挿入する。
// 不変条件 (必須項目・資格・写真パス) を満たさないものは書き込まない。
func (r *RegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	if registration == nil {
		return errors.New("registration payload is nil")
	}
	if err := registration.Validate(); err != nil {
		return err
	}

	doc := mapRegistrationToDocument(registration)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	registration.ID = doc.ID.Hex()
	registration.CreatedAt = doc.CreatedAt
	registration.UpdatedAt = doc.UpdatedAt
	return nil
}

// EnsureIndexes は一覧・エクスポートの createdAt 降順ソート用インデックスを用意する。
func (r *RegistrationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	return err
}

// mapRegistrationToDocument はドメイン Registration を Mongo 保存形式に射影する。
func mapRegistrationToDocument(registration *domain.Registration) RegistrationDocument {
	createdAt := registration.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := registration.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return RegistrationDocument{
		Name:           registration.Name,
		PhoneNumber:    registration.PhoneNumber,
		Place:          registration.Place,
		Qualification:  registration.Qualification.String(),
		Governorate:    registration.Governorate,
		Administration: registration.Administration,
		School:         registration.School,
		IDPhotoPath:    registration.IDPhotoPath,
		Comments:       registration.Comments,
		CreatedAt:      createdAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:      updatedAt.UTC().Truncate(time.Millisecond),
	}
}
