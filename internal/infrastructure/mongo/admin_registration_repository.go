package mongo

import (
	"context"

	admindomain "github.com/sngm3741/teacher-registration/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminRegistrationRepository は管理者向けに登録一覧を MongoDB から読み出すリポジトリ。
type AdminRegistrationRepository struct {
	registrations *mongo.Collection
}

// NewAdminRegistrationRepository は登録コレクションを束縛したリポジトリを生成する。
func NewAdminRegistrationRepository(db *mongo.Database, collectionName string) *AdminRegistrationRepository {
	return &AdminRegistrationRepository{registrations: db.Collection(collectionName)}
}

// FindAll はリクエスト時点の全件スナップショットを createdAt 降順で返す。
// 同時刻の場合は _id (挿入順) の降順で並べる。
func (r *AdminRegistrationRepository) FindAll(ctx context.Context) ([]admindomain.Registration, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.registrations.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	registrations := make([]admindomain.Registration, 0)
	for cursor.Next(ctx) {
		var doc RegistrationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		registrations = append(registrations, mapAdminRegistrationDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return registrations, nil
}

// mapAdminRegistrationDocument は Mongo 文書を Admin ドメイン Registration へ変換する。
func mapAdminRegistrationDocument(doc RegistrationDocument) admindomain.Registration {
	return admindomain.Registration{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		PhoneNumber:    doc.PhoneNumber,
		Place:          doc.Place,
		Qualification:  doc.Qualification,
		Governorate:    doc.Governorate,
		Administration: doc.Administration,
		School:         doc.School,
		IDPhotoPath:    doc.IDPhotoPath,
		Comments:       doc.Comments,
		CreatedAt:      doc.CreatedAt.UTC(),
		UpdatedAt:      doc.UpdatedAt.UTC(),
	}
}
