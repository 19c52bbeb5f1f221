package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationDocument は MongoDB 上での教員登録フォームのスキーマを Go 構造体として表現したもの。
// 公開 (書き込み) ・管理 (読み取り) の両ユースケースで共有する。
type RegistrationDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	PhoneNumber    string             `bson:"phoneNumber"`
	Place          string             `bson:"place"`
	Qualification  string             `bson:"qualification"`
	Governorate    string             `bson:"governorate"`
	Administration string             `bson:"administration"`
	School         string             `bson:"school,omitempty"`
	IDPhotoPath    string             `bson:"idPhotoPath"`
	Comments       string             `bson:"comments,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}
