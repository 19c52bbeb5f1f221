package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/teacher-registration/api/internal/config"
	mongodoc "github.com/sngm3741/teacher-registration/api/internal/infrastructure/mongo"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/referencedata"
	"github.com/sngm3741/teacher-registration/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	count           int
	dropCollections bool
	randomSeed      int64
}

var (
	firstNames = []string{"أحمد", "محمد", "محمود", "مصطفى", "علي", "فاطمة", "مريم", "سارة", "نورا", "هبة"}
	lastNames  = []string{"حسن", "إبراهيم", "عبد الله", "السيد", "عثمان", "يوسف", "سليمان", "رمضان"}
	comments   = []string{"", "", "متاح للعمل صباحاً", "خبرة عشر سنوات", "يفضل مدرسة قريبة من السكن"}
)

func main() {
	opts := parseFlags()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	if opts.dropCollections {
		if err := db.Collection(cfg.SubmissionCollection).Drop(ctx); err != nil {
			log.Fatalf("コレクション削除に失敗しました: %v", err)
		}
		log.Printf("既存コレクション %s を削除しました", cfg.SubmissionCollection)
	}

	repo := mongodoc.NewRegistrationRepository(db, cfg.SubmissionCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	locations := loadLocations(ctx, cfg.DataDir)
	rng := rand.New(rand.NewSource(opts.randomSeed))
	registrations, err := generateRegistrations(rng, locations, opts.count, time.Now().UTC())
	if err != nil {
		log.Fatalf("登録データの生成に失敗しました: %v", err)
	}
	for _, reg := range registrations {
		if err := repo.Create(ctx, reg); err != nil {
			log.Fatalf("登録データの挿入に失敗しました: %v", err)
		}
	}

	log.Printf("Seed 完了: registrations=%d", len(registrations))
	log.Printf("Mongo: %s / %s.%s", cfg.MongoURI, cfg.MongoDatabase, cfg.SubmissionCollection)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.count, "count", 25, "生成する登録件数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	const defaultSeed = 20240601
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.count < 0 {
		opts.count = 0
	}
	return opts
}

// location is one governorate with its administrations.
type location struct {
	governorate     string
	administrations []string
}

// loadLocations は参照データがあればそれを使い、無ければ固定の場所一覧で代用する。
func loadLocations(ctx context.Context, dataDir string) []location {
	fallback := func() []location {
		places := domain.Places()
		result := make([]location, 0, len(places))
		for _, place := range places {
			result = append(result, location{governorate: place, administrations: []string{place}})
		}
		return result
	}

	refs, err := referencedata.NewFileRepository(dataDir)
	if err != nil {
		return fallback()
	}
	governorates, err := refs.Governorates(ctx)
	if err != nil || len(governorates) == 0 {
		log.Printf("参照データを読み込めないため場所一覧を使用します: %v", err)
		return fallback()
	}

	result := make([]location, 0, len(governorates))
	for _, gov := range governorates {
		admins, err := refs.Administrations(ctx, gov)
		if err != nil || len(admins) == 0 {
			admins = []string{gov}
		}
		result = append(result, location{governorate: gov, administrations: admins})
	}
	return result
}

// generateRegistrations builds valid registrations spread over the last 30 days.
func generateRegistrations(rng *rand.Rand, locations []location, count int, now time.Time) ([]*domain.Registration, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations available")
	}
	places := domain.Places()

	result := make([]*domain.Registration, 0, count)
	for i := 0; i < count; i++ {
		loc := locations[rng.Intn(len(locations))]
		school := ""
		if rng.Intn(3) > 0 {
			school = fmt.Sprintf("مدرسة %s رقم %d", loc.governorate, rng.Intn(20)+1)
		}

		reg, err := domain.NewRegistration(domain.RegistrationInput{
			Name:           firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			PhoneNumber:    fmt.Sprintf("01%d%08d", rng.Intn(3), rng.Intn(100000000)),
			Place:          places[rng.Intn(len(places))],
			Qualification:  domain.AllowedQualifications[rng.Intn(len(domain.AllowedQualifications))],
			Governorate:    loc.governorate,
			Administration: loc.administrations[rng.Intn(len(loc.administrations))],
			School:         school,
			Comments:       comments[rng.Intn(len(comments))],
		})
		if err != nil {
			return nil, err
		}
		if err := reg.AttachPhoto(fmt.Sprintf("storage/uploads/seed-%s.png", uuid.NewString())); err != nil {
			return nil, err
		}
		reg.Stamp(now.Add(-time.Duration(rng.Intn(30*24*60)) * time.Minute))
		result = append(result, reg)
	}
	return result, nil
}
