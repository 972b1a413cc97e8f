// auth.go — JWT middleware для аутентификации callback'ов pipeline обогащения.
// Валидация подписи через JWKS IdP. Включается только при заданном SM_CALLBACK_JWKS_URL;
// без него callback-endpoint'ы доступны без аутентификации (доверенная сеть).
package middleware

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/arturkryukov/progoffice/submission-module/internal/api/errors"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// ContextKeyCallbackSubject — sub валидированного callback-токена в контексте запроса.
const ContextKeyCallbackSubject contextKey = "callback_subject"

// callbackClaims — raw claims из JWT pipeline'а обогащения.
type callbackClaims struct {
	jwt.RegisteredClaims
	// Scope — scopes через пробел (Client Credentials flow).
	Scope string `json:"scope,omitempty"`
	// ClientID — client_id сервисного аккаунта pipeline'а.
	ClientID string `json:"client_id,omitempty"`
}

// hasScope проверяет наличие указанного scope в space-separated строке.
func (c *callbackClaims) hasScope(scope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}

// CallbackAuth — middleware для JWT-аутентификации callback'ов через JWKS.
type CallbackAuth struct {
	jwks          keyfunc.Keyfunc
	logger        *slog.Logger
	issuer        string
	requiredScope string
	jwtLeeway     time.Duration
}

// NewCallbackAuth создаёт JWT middleware с JWKS из IdP.
// jwksURL — URL к JWKS endpoint.
// caCertPath — опциональный путь к CA-сертификату для TLS.
// issuer — ожидаемый issuer JWT (может быть пустым — issuer не проверяется).
// requiredScope — scope, обязательный для callback'ов (пустой — не проверяется).
func NewCallbackAuth(
	jwksURL string,
	caCertPath string,
	issuer string,
	requiredScope string,
	jwksClientTimeout time.Duration,
	jwksRefreshInterval time.Duration,
	jwtLeeway time.Duration,
	logger *slog.Logger,
) (*CallbackAuth, error) {
	// HTTP-клиент для JWKS (с кастомным CA или стандартный)
	httpClient := &http.Client{Timeout: jwksClientTimeout}
	if caCertPath != "" {
		var err error
		httpClient, err = httpClientWithCA(caCertPath, jwksClientTimeout)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата %s: %w", caCertPath, err)
		}
		logger.Info("CA-сертификат для JWKS добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	// JWKS Storage с фоновым обновлением.
	// NoErrorReturnFirstHTTPReq — стартуем даже если IdP ещё недоступен.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    httpClient,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           jwksRefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return &CallbackAuth{
		jwks:          k,
		logger:        logger.With(slog.String("component", "callback_auth")),
		issuer:        issuer,
		requiredScope: requiredScope,
		jwtLeeway:     jwtLeeway,
	}, nil
}

// httpClientWithCA создаёт HTTP-клиент с кастомным CA-сертификатом.
func httpClientWithCA(caCertPath string, timeout time.Duration) (*http.Client, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, err
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs: caCertPool,
			},
		},
	}, nil
}

// Middleware возвращает HTTP middleware для аутентификации callback'ов.
// Извлекает Bearer token, валидирует подпись (RS256), проверяет scope
// и помещает sub в контекст запроса.
func (a *CallbackAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			// Парсинг и валидация JWT через JWKS
			rawClaims := &callbackClaims{}
			parserOpts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"RS256"}),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(a.jwtLeeway),
			}
			if a.issuer != "" {
				parserOpts = append(parserOpts, jwt.WithIssuer(a.issuer))
			}

			token, err := jwt.ParseWithClaims(tokenString, rawClaims, a.jwks.KeyfuncCtx(r.Context()), parserOpts...)
			if err != nil {
				a.logger.Debug("JWT валидация не пройдена",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			if !token.Valid {
				apierrors.Unauthorized(w, "Невалидный токен")
				return
			}

			subject, err := rawClaims.GetSubject()
			if err != nil || subject == "" {
				apierrors.Unauthorized(w, "Отсутствует sub в токене")
				return
			}

			if a.requiredScope != "" && !rawClaims.hasScope(a.requiredScope) {
				a.logger.Warn("Callback без требуемого scope",
					slog.String("client_id", rawClaims.ClientID),
					slog.String("required_scope", a.requiredScope),
				)
				apierrors.Unauthorized(w, "Недостаточно прав: требуется scope "+a.requiredScope)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyCallbackSubject, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext извлекает sub callback-токена из контекста запроса.
// Возвращает пустую строку, если аутентификация не выполнялась.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(ContextKeyCallbackSubject).(string)
	return subject
}

// Close освобождает ресурсы JWT middleware.
func (a *CallbackAuth) Close() {
	// keyfunc v3 не требует явного закрытия
}
