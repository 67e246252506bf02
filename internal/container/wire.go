package container

import (
	"context"
	"strings"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/config"
	"github.com/oksasatya/user-service/internal/application"
	pginfra "github.com/oksasatya/user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-service/internal/otc"
	"github.com/oksasatya/user-service/pkg/helpers"
	"github.com/oksasatya/user-service/pkg/mailer"
	"github.com/oksasatya/user-service/pkg/mailer/templates"
	"github.com/oksasatya/user-service/pkg/validation"
)

// Cleanup releases what a builder opened.
type Cleanup func()

func noop() {}

// BuildAccountService assembles the account service from the configured
// singletons. The returned Cleanup closes every collaborator it opened.
func BuildAccountService(ctx context.Context) (*application.AccountService, Cleanup, error) {
	var cleanups []Cleanup
	closeAll := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*application.AccountService, Cleanup, error) {
		closeAll()
		return nil, noop, err
	}

	codes, done, err := NewOtcStore(cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, done)

	mail, done, err := NewEmailSender(cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, done)

	blobs, done, err := NewBlobUploader(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, done)

	index, err := NewProfileIndex(cfg)
	if err != nil {
		return fail(err)
	}

	svc := application.NewAccountService(application.Deps{
		Repo:      pginfra.NewAccountRepository(pgPool),
		Hasher:    helpers.NewBcryptHasher(cfg.BcryptCost),
		Tokens:    tokens,
		Codes:     codes,
		Mail:      mail,
		Blobs:     blobs,
		Index:     index,
		Validator: validation.New(cfg.DisposableDomains()...),
		Logger:    logger,
		Branding: templates.Branding{
			AppName:        cfg.AppName,
			CompanyName:    cfg.CompanyName,
			CompanyAddress: cfg.CompanyAddress,
			LogoURL:        cfg.LogoURL,
			SupportURL:     cfg.SupportURL,
		},
		OtcTTL:        cfg.OtcTTL,
		DefaultRoleID: cfg.DefaultRoleID,
	})
	return svc, closeAll, nil
}

// NewOtcStore picks the code store. "redis" shares codes across replicas;
// "memory" keeps them in process.
func NewOtcStore(c *config.Config) (otc.Store, Cleanup, error) {
	switch strings.ToLower(c.OtcStore) {
	case "redis":
		if redisClient == nil {
			return nil, noop, oops.In("container").Errorf("OTC_STORE=redis but redis is not available")
		}
		return otc.NewRedisStore(redisClient), noop, nil
	case "", "memory":
		s := otc.NewMemoryStore()
		return s, s.Close, nil
	default:
		return nil, noop, oops.In("container").With("otc_store", c.OtcStore).Errorf("unknown OTC_STORE %q", c.OtcStore)
	}
}

// NewEmailSender picks the mail transport. With sending disabled emails are
// only logged.
func NewEmailSender(c *config.Config, logger logrus.FieldLogger) (application.EmailSender, Cleanup, error) {
	if !c.MailSendEnabled {
		return mailer.LogSender{Logger: logger}, noop, nil
	}
	switch strings.ToLower(c.MailTransport) {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(c.RabbitMQURL, c.RabbitMQEmailQueue)
		if err != nil {
			return nil, noop, oops.In("container").With("queue", c.RabbitMQEmailQueue).Wrapf(err, "rabbitmq publisher")
		}
		return mailer.NewQueueSender(pub), pub.Close, nil
	case "mailgun":
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			return nil, noop, oops.In("container").Errorf("mailgun not configured")
		}
		return mailer.NewMailgun(c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender), noop, nil
	default:
		return nil, noop, oops.In("container").With("mail_transport", c.MailTransport).Errorf("unknown MAIL_TRANSPORT %q", c.MailTransport)
	}
}

// NewBlobUploader picks the avatar backend. A missing bucket disables uploads.
func NewBlobUploader(ctx context.Context, c *config.Config) (application.BlobUploader, Cleanup, error) {
	switch strings.ToLower(c.BlobBackend) {
	case "gcs":
		if c.GCSBucket == "" {
			return nil, noop, nil
		}
		client, err := helpers.NewGCSClient(ctx, c.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, oops.In("container").Wrapf(err, "gcs client")
		}
		return helpers.NewGCSUploader(client, c.GCSBucket), func() { _ = client.Close() }, nil
	case "s3":
		if c.S3Bucket == "" {
			return nil, noop, nil
		}
		client, err := helpers.NewS3Client(ctx, c.S3Region, c.S3BaseEndpoint, c.S3AccessKey, c.S3SecretKey)
		if err != nil {
			return nil, noop, oops.In("container").Wrapf(err, "s3 client")
		}
		return helpers.NewS3Uploader(client, c.S3Bucket, c.S3Region, c.S3PublicURL), noop, nil
	default:
		return nil, noop, oops.In("container").With("blob_backend", c.BlobBackend).Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}
}

// NewProfileIndex returns the Elasticsearch index, or nil when no address is set.
func NewProfileIndex(c *config.Config) (application.ProfileIndex, error) {
	addrs := c.ESAddrs()
	if len(addrs) == 0 {
		return nil, nil
	}
	client, err := helpers.NewESClient(addrs, c.ElasticsearchUser, c.ElasticsearchPass)
	if err != nil {
		return nil, oops.In("container").Wrapf(err, "elasticsearch client")
	}
	return helpers.NewESIndex(client, c.ESUsersIndex), nil
}
