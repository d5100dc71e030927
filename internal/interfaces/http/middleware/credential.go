package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ProviderKeyHeader 请求级 LLM 凭据头
const ProviderKeyHeader = "X-Provider-Key"

const credentialKey = "provider_credential"

// ProviderCredential 读取请求级凭据并从请求头中移除，避免被后续日志记录
func ProviderCredential() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := strings.TrimSpace(c.GetHeader(ProviderKeyHeader)); key != "" {
			c.Set(credentialKey, key)
			c.Request.Header.Del(ProviderKeyHeader)
		}
		c.Next()
	}
}

// CredentialFrom 返回请求携带的凭据
func CredentialFrom(c *gin.Context) string {
	return c.GetString(credentialKey)
}
